package api

import (
	"net/http"
	"time"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/httputil"
)

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{
		"status":  "ok",
		"service": "proyecto-sincronizacion",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
