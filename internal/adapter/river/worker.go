package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// TransitionWorker processes committed-transition jobs from the River queue.
// For now it logs the transition; future versions will dispatch to webhooks
// or notification systems.
type TransitionWorker struct {
	river.WorkerDefaults[TransitionJobArgs]
}

// Work processes a single transition job.
func (w *TransitionWorker) Work(ctx context.Context, job *river.Job[TransitionJobArgs]) error {
	changedBy := "SYSTEM"
	if job.Args.ChangedBy != nil {
		changedBy = *job.Args.ChangedBy
	}
	slog.InfoContext(ctx, "processing transition",
		"record_id", job.Args.RecordID,
		"org_id", job.Args.OrgID,
		"entity_id", job.Args.EntityID,
		"entity_type", job.Args.EntityType,
		"to_status_id", job.Args.ToStatusID,
		"changed_by", changedBy,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
