package store

import (
	"context"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// EnsureApp returns the app with the given name, creating it together
	// with a default rule if it does not exist yet. The path is refreshed
	// on every call.
	EnsureApp(ctx context.Context, name, path string) (*models.App, error)
	// SaveSample appends an activity sample to its day's sample log.
	SaveSample(ctx context.Context, sample *models.ActivitySample) error
	// SamplesForDay returns the day's samples in timestamp order, each
	// joined with its app and rule.
	SamplesForDay(ctx context.Context, day time.Time) ([]models.SampleRecord, error)
	// FirstSampleDay returns the earliest day with recorded samples, or
	// the zero time when none exist.
	FirstSampleDay(ctx context.Context) (time.Time, error)
	// Apps returns every known app joined with its rule, sorted by name.
	Apps(ctx context.Context) ([]AppListing, error)
	// SetAppCategory upserts the rule for the given app id.
	SetAppCategory(ctx context.Context, appID string, category models.Category) error
	// CreateSession persists a new focus session.
	CreateSession(ctx context.Context, sess *models.FocusSession) error
	// UpdateSession overwrites a previously created focus session.
	UpdateSession(ctx context.Context, sess *models.FocusSession) error
	// SessionsStartedBetween returns sessions whose start time falls in
	// [start, end], ordered by start time.
	SessionsStartedBetween(ctx context.Context, start, end time.Time) ([]models.FocusSession, error)
	// RunningSessions returns every persisted session still marked RUNNING.
	RunningSessions(ctx context.Context) ([]models.FocusSession, error)
	// AppendSessionEvent records a pause/resume audit event.
	AppendSessionEvent(ctx context.Context, event *models.FocusSessionEvent) error
	// SessionEvents returns the audit events for one session in order.
	SessionEvents(ctx context.Context, sessionID string) ([]models.FocusSessionEvent, error)
	// Close ends the database connection
	Close() error
}

// AppListing is an app joined with its resolved rule for the settings
// surface.
type AppListing struct {
	App  models.App     `json:"app"`
	Rule models.AppRule `json:"rule"`
}
