// Package session operates the focus session state machine and handles
// the recovery of sessions orphaned by a crashed process.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

const (
	defaultDurationMinutes = 25
	defaultGoal            = "Focus Session"
)

// Store is the slice of the data store the machine persists through.
type Store interface {
	CreateSession(ctx context.Context, sess *models.FocusSession) error
	UpdateSession(ctx context.Context, sess *models.FocusSession) error
	RunningSessions(ctx context.Context) ([]models.FocusSession, error)
	AppendSessionEvent(ctx context.Context, event *models.FocusSessionEvent) error
}

// Config describes a session to start.
type Config struct {
	DurationMinutes int
	TaskTitle       string
}

// Status is the session DTO pushed to observers and returned from the
// control surface.
type Status struct {
	SessionID        string               `json:"session_id"`
	Goal             string               `json:"goal"`
	State            models.SessionStatus `json:"state"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time,omitzero"`
	DurationMinutes  int                  `json:"duration_minutes"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Elapsed          time.Duration        `json:"elapsed"`
}

// Observer receives the current session status after every
// state-affecting operation. A nil status is the explicit "no session"
// signal.
type Observer func(*Status)

// active is the exclusively-owned in-memory state of the current
// session. All access goes through the machine's mutex.
type active struct {
	sess             models.FocusSession
	durationMinutes  int
	remainingSeconds int
	ticker           *time.Ticker
	done             chan struct{}
}

// Machine owns the single current focus session. The one-second tick and
// the explicit control calls are serialized on the same mutex, so a tick
// and a pause can never interleave on the remaining-seconds counter.
type Machine struct {
	mu        sync.Mutex
	db        Store
	now       func() time.Time
	current   *active
	observers []Observer
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the machine's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// New creates a session machine after force-closing any session left
// RUNNING on disk by a previous process. Recovery failure fails
// construction: no session may start over an inconsistent store.
func New(ctx context.Context, db Store, opts ...Option) (*Machine, error) {
	m := &Machine{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if _, err := RecoverOrphans(ctx, db, m.now()); err != nil {
		return nil, errRecoveryFailed.Wrap(err)
	}

	return m, nil
}

// Subscribe registers an observer for session updates. Observers are
// invoked outside the machine's lock and may call back into it.
func (m *Machine) Subscribe(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, obs)
}

func (m *Machine) notify(status *Status) {
	m.mu.Lock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, obs := range observers {
		obs(status)
	}
}

// newID generates a random session identifier.
func newID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)

	return "FS-" + hex.EncodeToString(b)
}

// Start begins a new focus session. A session already current is ended
// first, never treated as an error. The returned status reflects the
// freshly started session; no timer runs if persistence fails.
func (m *Machine) Start(ctx context.Context, cfg Config) (*Status, error) {
	m.mu.Lock()

	if m.current != nil {
		if _, err := m.endLocked(ctx, m.current.sess.ID); err != nil {
			m.mu.Unlock()
			return nil, errPersist.Wrap(err)
		}
	}

	durationMinutes := cfg.DurationMinutes
	if durationMinutes <= 0 {
		durationMinutes = defaultDurationMinutes
	}

	goal := cfg.TaskTitle
	if goal == "" {
		goal = defaultGoal
	}

	sess := models.FocusSession{
		ID:        newID(),
		Goal:      goal,
		StartTime: m.now(),
		Status:    models.StatusRunning,
		Duration:  time.Duration(durationMinutes) * time.Minute,
	}

	if err := m.db.CreateSession(ctx, &sess); err != nil {
		m.mu.Unlock()
		return nil, errPersist.Wrap(err)
	}

	m.current = &active{
		sess:             sess,
		durationMinutes:  durationMinutes,
		remainingSeconds: durationMinutes * 60,
	}

	m.startTickerLocked()

	status := m.statusLocked()

	m.mu.Unlock()

	m.notify(status)

	return status, nil
}

// Pause suspends the current session. A no-op unless a session exists
// and is running.
func (m *Machine) Pause(ctx context.Context) error {
	m.mu.Lock()

	a := m.current
	if a == nil || a.sess.Status != models.StatusRunning {
		m.mu.Unlock()
		return nil
	}

	m.stopTickerLocked(a)

	a.sess.Status = models.StatusPaused

	event := models.FocusSessionEvent{
		SessionID: a.sess.ID,
		Type:      models.SessionEventPause,
		Timestamp: m.now(),
	}

	if err := m.db.AppendSessionEvent(ctx, &event); err != nil {
		m.mu.Unlock()
		return errPersist.Wrap(err)
	}

	status := m.statusLocked()

	m.mu.Unlock()

	m.notify(status)

	return nil
}

// Resume continues a paused session. The remaining seconds pick up where
// they were: time spent paused is not deducted. A no-op unless a session
// exists and is paused.
func (m *Machine) Resume(ctx context.Context) error {
	m.mu.Lock()

	a := m.current
	if a == nil || a.sess.Status != models.StatusPaused {
		m.mu.Unlock()
		return nil
	}

	a.sess.Status = models.StatusRunning

	event := models.FocusSessionEvent{
		SessionID: a.sess.ID,
		Type:      models.SessionEventResume,
		Timestamp: m.now(),
	}

	if err := m.db.AppendSessionEvent(ctx, &event); err != nil {
		a.sess.Status = models.StatusPaused
		m.mu.Unlock()

		return errPersist.Wrap(err)
	}

	m.startTickerLocked()

	status := m.statusLocked()

	m.mu.Unlock()

	m.notify(status)

	return nil
}

// End completes the session with the given id. Returns the final status,
// or nil without error when the id does not match the current session.
func (m *Machine) End(ctx context.Context, sessionID string) (*Status, error) {
	m.mu.Lock()

	status, err := m.endLocked(ctx, sessionID)
	if err != nil {
		m.mu.Unlock()
		return nil, errPersist.Wrap(err)
	}

	m.mu.Unlock()

	if status != nil {
		m.notify(status)
	}

	return status, nil
}

// endLocked completes the current session when the id matches. Callers
// hold the mutex and are responsible for notifying with the returned
// status.
func (m *Machine) endLocked(
	ctx context.Context,
	sessionID string,
) (*Status, error) {
	a := m.current
	if a == nil || a.sess.ID != sessionID {
		return nil, nil
	}

	m.stopTickerLocked(a)

	prevStatus := a.sess.Status
	prevEndTime := a.sess.EndTime

	a.sess.Status = models.StatusCompleted
	a.sess.EndTime = m.now()

	if err := m.db.UpdateSession(ctx, &a.sess); err != nil {
		// the session stays current with its persisted state so a
		// retried end can still succeed
		a.sess.Status = prevStatus
		a.sess.EndTime = prevEndTime

		return nil, err
	}

	status := statusFor(a)

	m.current = nil

	return status, nil
}

// Current returns the status of the current session, or nil when none.
func (m *Machine) Current() *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.statusLocked()
}

func (m *Machine) statusLocked() *Status {
	if m.current == nil {
		return nil
	}

	return statusFor(m.current)
}

func statusFor(a *active) *Status {
	return &Status{
		SessionID:        a.sess.ID,
		Goal:             a.sess.Goal,
		State:            a.sess.Status,
		StartTime:        a.sess.StartTime,
		EndTime:          a.sess.EndTime,
		DurationMinutes:  a.durationMinutes,
		RemainingSeconds: a.remainingSeconds,
		Elapsed: time.Duration(
			a.durationMinutes*60-a.remainingSeconds,
		) * time.Second,
	}
}

func (m *Machine) startTickerLocked() {
	a := m.current

	ticker := time.NewTicker(time.Second)
	a.ticker = ticker
	a.done = make(chan struct{})

	go m.tickLoop(ticker, a.done)
}

// stopTickerLocked tears down the tick on every exit path so a session
// never ends up with two timers.
func (m *Machine) stopTickerLocked(a *active) {
	if a.ticker == nil {
		return
	}

	a.ticker.Stop()
	close(a.done)
	a.ticker = nil
	a.done = nil
}

// tickLoop decrements the remaining seconds once per second, broadcasts
// the status, and triggers automatic completion when the counter reaches
// zero.
func (m *Machine) tickLoop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !m.tick(ticker) {
				return
			}
		}
	}
}

// tick handles one timer beat. It reports false once this ticker is no
// longer the session's own, which ends the loop.
func (m *Machine) tick(ticker *time.Ticker) bool {
	m.mu.Lock()

	a := m.current
	if a == nil || a.ticker != ticker {
		m.mu.Unlock()
		return false
	}

	a.remainingSeconds--

	if a.remainingSeconds > 0 {
		status := m.statusLocked()
		m.mu.Unlock()

		m.notify(status)

		return true
	}

	// automatic completion goes through the same path as explicit end
	status, err := m.endLocked(context.Background(), a.sess.ID)
	if err != nil {
		// completion was not persisted: the session is still current,
		// so broadcast its rolled-back state rather than a completion
		// that did not happen
		failed := statusFor(a)

		m.mu.Unlock()

		slog.Error("unable to complete session",
			slog.String("session_id", a.sess.ID),
			slog.Any("error", err),
		)

		m.notify(failed)

		return false
	}

	m.mu.Unlock()

	m.notify(status)

	return false
}
