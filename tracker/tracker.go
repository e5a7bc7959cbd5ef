// Package tracker runs the foreground-activity sampling loop and feeds
// observed samples into the store.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

// DefaultInterval is the sampling cadence. It doubles as the fallback
// tick the timeline builder assigns to unbounded samples.
const DefaultInterval = 2000 * time.Millisecond

// Sample is one foreground-window observation from the platform sampler.
type Sample struct {
	AppName     string
	AppPath     string
	WindowTitle string
	Idle        bool
}

// Sampler produces foreground-window observations. Implementations talk
// to the OS and live outside the core.
type Sampler interface {
	Sample(ctx context.Context) (*Sample, error)
}

// Store is the slice of the data store the tracker writes to.
type Store interface {
	EnsureApp(ctx context.Context, name, path string) (*models.App, error)
	SaveSample(ctx context.Context, sample *models.ActivitySample) error
}

// Observer receives each sample as it is recorded.
type Observer func(models.ActivitySample)

// Tracker samples the foreground window at a fixed interval. Start and
// Stop are idempotent.
type Tracker struct {
	mu        sync.Mutex
	db        Store
	sampler   Sampler
	interval  time.Duration
	cancel    context.CancelFunc
	observers []Observer
}

// New creates a tracker. A zero interval falls back to DefaultInterval.
func New(db Store, sampler Sampler, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Tracker{
		db:       db,
		sampler:  sampler,
		interval: interval,
	}
}

// Subscribe registers an observer for recorded samples.
func (t *Tracker) Subscribe(obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.observers = append(t.observers, obs)
}

// Start begins the sampling loop. Calling Start while already tracking
// is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	go t.loop(ctx)

	slog.Info("tracking started", slog.Duration("interval", t.interval))
}

// Stop halts the sampling loop. Calling Stop while not tracking is a
// no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel == nil {
		return
	}

	t.cancel()
	t.cancel = nil

	slog.Info("tracking stopped")
}

func (t *Tracker) loop(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := t.sampler.Sample(ctx)
			if err != nil {
				slog.Error("sampling failed", slog.Any("error", err))
				continue
			}

			if sample == nil {
				continue
			}

			// a failed write must not crash the capture loop
			if err := t.Record(ctx, sample, time.Now()); err != nil {
				slog.Error("unable to record sample",
					slog.String("app", sample.AppName),
					slog.Any("error", err),
				)
			}
		}
	}
}

// Record persists one observation, lazily creating the app and its
// default rule the first time the app name is seen.
func (t *Tracker) Record(
	ctx context.Context,
	sample *Sample,
	timestamp time.Time,
) error {
	record := models.ActivitySample{
		Timestamp:   timestamp,
		EventType:   models.EventActive,
		WindowTitle: sample.WindowTitle,
	}

	if sample.Idle {
		record.EventType = models.EventIdle
	} else {
		app, err := t.db.EnsureApp(ctx, sample.AppName, sample.AppPath)
		if err != nil {
			return err
		}

		record.AppID = app.ID
	}

	if err := t.db.SaveSample(ctx, &record); err != nil {
		return err
	}

	t.mu.Lock()
	observers := make([]Observer, len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	for _, obs := range observers {
		obs(record)
	}

	return nil
}
