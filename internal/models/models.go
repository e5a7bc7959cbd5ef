// Package models defines the entities shared between the store, the
// timeline builder, the aggregator, and the session machine.
package models

import "time"

// Category classifies an application for daily accounting.
type Category string

const (
	CategoryWork          Category = "WORK"
	CategoryComm          Category = "COMM"
	CategoryEnt           Category = "ENT"
	CategoryOther         Category = "OTHER"
	CategoryUncategorized Category = "UNCATEGORIZED"
)

// Categories lists every known category bucket in display order.
var Categories = []Category{
	CategoryWork,
	CategoryComm,
	CategoryEnt,
	CategoryOther,
	CategoryUncategorized,
}

// Known reports whether c is one of the five category buckets.
func (c Category) Known() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}

	return false
}

// EventType distinguishes foreground activity from idle observations.
type EventType string

const (
	EventActive EventType = "ACTIVE"
	EventIdle   EventType = "IDLE"
)

// SegmentKind is the timeline rendering of an event type.
type SegmentKind string

const (
	KindForeground SegmentKind = "FOREGROUND"
	KindIdle       SegmentKind = "IDLE"
)

// App identifies a distinct tracked application. Apps are created lazily
// the first time a sample for their name is recorded.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// AppRule holds the user-controlled settings for an app. Every app has
// exactly one rule, created with CategoryOther alongside the app itself.
type AppRule struct {
	AppID          string   `json:"app_id"`
	Category       Category `json:"category"`
	IsBlocked      bool     `json:"is_blocked"`
	IgnoreTracking bool     `json:"ignore_tracking"`
}

// ActivitySample is a single foreground or idle observation. Samples are
// immutable once stored.
type ActivitySample struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   EventType `json:"event_type"`
	AppID       string    `json:"app_id,omitempty"`
	WindowTitle string    `json:"window_title,omitempty"`
}

// SampleRecord is an ActivitySample joined with its app and rule, the
// shape the store hands to the timeline builder and the aggregator.
type SampleRecord struct {
	ActivitySample

	App  *App     `json:"app,omitempty"`
	Rule *AppRule `json:"rule,omitempty"`
}

// DisplayName resolves the name shown on the timeline for the sample.
func (r *SampleRecord) DisplayName() string {
	if r.App == nil {
		return "Unknown"
	}

	return r.App.Name
}

// Category resolves the sample's category from its app rule.
func (r *SampleRecord) Category() Category {
	if r.Rule == nil {
		return CategoryUncategorized
	}

	return r.Rule.Category
}

// Kind maps the sample's event type to its segment kind.
func (r *SampleRecord) Kind() SegmentKind {
	if r.EventType == EventActive {
		return KindForeground
	}

	return KindIdle
}

// SessionStatus is the lifecycle state of a focus session.
type SessionStatus string

const (
	StatusRunning   SessionStatus = "RUNNING"
	StatusPaused    SessionStatus = "PAUSED"
	StatusCompleted SessionStatus = "COMPLETED"
	StatusAborted   SessionStatus = "ABORTED"
)

// FocusSession is a persisted focus session. A zero EndTime means the
// session has not ended.
type FocusSession struct {
	ID        string        `json:"id"`
	Goal      string        `json:"goal"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    SessionStatus `json:"status"`
	Duration  time.Duration `json:"duration"`
}

// Span returns the wall-clock time covered by the session. Sessions with
// an end time span start to end; running sessions are measured up to now.
func (s *FocusSession) Span(now time.Time) time.Duration {
	if !s.EndTime.IsZero() {
		return s.EndTime.Sub(s.StartTime)
	}

	if s.Status == StatusRunning {
		return now.Sub(s.StartTime)
	}

	return 0
}

// SessionEventType is the kind of a session audit event.
type SessionEventType string

const (
	SessionEventPause  SessionEventType = "PAUSE"
	SessionEventResume SessionEventType = "RESUME"
)

// FocusSessionEvent is one entry in a session's append-only audit trail.
type FocusSessionEvent struct {
	SessionID string           `json:"session_id"`
	Type      SessionEventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
}
