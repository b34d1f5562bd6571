package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/history"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/httputil"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/logger"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/sync"
)

// opaqueID is a board or list identifier as supplied by the caller. Ids
// are opaque: Monday board ids are numeric, Mailchimp list ids are
// alphanumeric, and clients send either shape quoted or bare.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = opaqueID(n.String())
	return nil
}

type syncRequest struct {
	MondayBoardID   opaqueID `json:"mondayBoardId"`
	MailchimpListID opaqueID `json:"mailchimpListId"`
}

type syncResponse struct {
	Message     string              `json:"message"`
	RunID       string              `json:"runId"`
	Summary     sync.Summary        `json:"summary"`
	SyncResults []mailchimp.Outcome `json:"syncResults"`
}

// TriggerSync runs the Monday → Mailchimp synchronization for the given
// board and list, records the run, and returns the per-item outcomes.
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	boardID := string(req.MondayBoardID)
	listID := string(req.MailchimpListID)
	if boardID == "" || listID == "" {
		httputil.BadRequest(w, "Faltan los IDs de Monday o Mailchimp")
		return
	}

	runID := uuid.New().String()
	startedAt := time.Now().UTC()
	logger.Info("sync run started", "run_id", runID, "board_id", boardID, "list_id", listID)

	outcomes, err := h.runner.Run(r.Context(), boardID, listID)
	if err != nil {
		logger.Error("sync run failed", "run_id", runID, "err", err.Error())
		httputil.InternalError(w, "Error en la sincronización: "+err.Error())
		return
	}

	run := history.Run{
		ID:         runID,
		BoardID:    boardID,
		ListID:     listID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Summary:    sync.Summarize(outcomes),
		Outcomes:   outcomes,
	}
	h.recordRun(r, run)

	httputil.OK(w, syncResponse{
		Message:     "Sincronización completada con éxito",
		RunID:       runID,
		Summary:     run.Summary,
		SyncResults: outcomes,
	})
}

// recordRun persists the run report, best-effort. The sync already
// happened; reporting failures are logged and swallowed.
func (h *Handlers) recordRun(r *http.Request, run history.Run) {
	ctx := r.Context()
	if h.history != nil {
		if err := h.history.SaveRun(ctx, run); err != nil {
			logger.Warn("saving run history", "run_id", run.ID, "err", err.Error())
		}
	}
	if h.archive != nil {
		if err := h.archive.Store(ctx, run); err != nil {
			logger.Warn("archiving run report", "run_id", run.ID, "err", err.Error())
		}
	}
}

// ListRuns returns recent sync runs, newest first.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "El historial de sincronizaciones no está configurado")
		return
	}

	runs, err := h.history.ListRuns(r.Context())
	if err != nil {
		logger.Error("listing runs", "err", err.Error())
		httputil.InternalError(w, "No se pudo obtener el historial")
		return
	}
	httputil.OK(w, map[string]interface{}{"runs": runs})
}

// GetRun returns one sync run by id. Runs that aged out of the history
// window are served from the archive when one is configured.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil && h.archive == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "El historial de sincronizaciones no está configurado")
		return
	}

	runID := chi.URLParam(r, "runID")

	var run *history.Run
	if h.history != nil {
		var err error
		run, err = h.history.GetRun(r.Context(), runID)
		if err != nil {
			logger.Error("loading run", "run_id", runID, "err", err.Error())
			httputil.InternalError(w, "No se pudo obtener la sincronización")
			return
		}
	}
	if run == nil && h.archive != nil {
		var err error
		run, err = h.archive.Load(r.Context(), runID)
		if err != nil {
			logger.Error("loading archived run", "run_id", runID, "err", err.Error())
			httputil.InternalError(w, "No se pudo obtener la sincronización")
			return
		}
	}
	if run == nil {
		httputil.NotFound(w, "Sincronización no encontrada")
		return
	}
	httputil.OK(w, run)
}
