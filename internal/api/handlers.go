package api

import (
	"context"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/history"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
)

// syncRunner executes one synchronization run.
type syncRunner interface {
	Run(ctx context.Context, boardID, listID string) ([]mailchimp.Outcome, error)
}

// runArchiver persists completed run reports outside the history window
// and serves them back once the Redis report has expired.
type runArchiver interface {
	Store(ctx context.Context, run history.Run) error
	Load(ctx context.Context, runID string) (*history.Run, error)
}

// Handlers bundles the dependencies of the HTTP handlers. History and
// archive are optional; nil disables the corresponding endpoints.
type Handlers struct {
	runner  syncRunner
	history *history.Store
	archive runArchiver
}

// NewHandlers creates the handler set.
func NewHandlers(runner syncRunner, historyStore *history.Store, archiveStore runArchiver) *Handlers {
	return &Handlers{
		runner:  runner,
		history: historyStore,
		archive: archiveStore,
	}
}
