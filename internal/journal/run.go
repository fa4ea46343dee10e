package journal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"xbvrkit/internal/logging"
	"xbvrkit/internal/services"
)

// Run tags the outcomes of one batch invocation with a shared run id. A nil
// *Run, or one without a Recorder, silently drops outcomes.
type Run struct {
	ID     string
	Task   string
	rec    Recorder
	logger *slog.Logger
}

// NewRun starts a run for task with a fresh UUID.
func NewRun(rec Recorder, task string, logger *slog.Logger) *Run {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Run{
		ID:     uuid.NewString(),
		Task:   task,
		rec:    rec,
		logger: logger,
	}
}

// Context stamps ctx with the run id and task for log correlation.
func (r *Run) Context(ctx context.Context) context.Context {
	if r == nil {
		return ctx
	}
	return services.WithTask(services.WithRunID(ctx, r.ID), r.Task)
}

// Record appends one outcome. Journal failures are logged and otherwise
// ignored so they never abort a batch.
func (r *Run) Record(ctx context.Context, key, status, sceneID, detail string) {
	if r == nil || r.rec == nil {
		return
	}
	entry := Entry{
		RunID:   r.ID,
		Task:    r.Task,
		Key:     key,
		Status:  status,
		SceneID: sceneID,
		Detail:  detail,
	}
	if err := r.rec.Record(ctx, entry); err != nil {
		logging.WarnWithContext(r.logger, "journal write failed", "journal_write_failed",
			logging.String("item", key),
			logging.String("status", status),
			logging.String(logging.FieldImpact, "outcome not persisted"),
			logging.Error(err),
		)
	}
}
