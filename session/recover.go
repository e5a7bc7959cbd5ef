package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

// RecoverOrphans force-closes sessions a previous process left marked
// RUNNING on disk. The store lock admits one process at a time, so a
// RUNNING row at startup means the previous process died mid-session.
// Each orphan is transitioned to ABORTED with its end time set to now.
// Returns the number of sessions aborted.
func RecoverOrphans(
	ctx context.Context,
	db Store,
	now time.Time,
) (int, error) {
	orphans, err := db.RunningSessions(ctx)
	if err != nil {
		return 0, err
	}

	for i := range orphans {
		sess := orphans[i]

		sess.Status = models.StatusAborted
		sess.EndTime = now

		if err := db.UpdateSession(ctx, &sess); err != nil {
			return i, err
		}

		slog.Info("aborted orphaned session",
			slog.String("session_id", sess.ID),
			slog.Time("started_at", sess.StartTime),
		)
	}

	return len(orphans), nil
}
