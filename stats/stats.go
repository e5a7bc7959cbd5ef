// Package stats aggregates a day's activity samples and focus sessions
// into daily summary statistics.
package stats

import (
	"context"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/internal/timeutil"
)

const (
	defaultGapThreshold = 5 * time.Minute
	defaultFallbackTick = 2000 * time.Millisecond
)

// Options tunes the duration-inference rule. It must carry the same
// values as the timeline builder's options so the two views agree.
type Options struct {
	GapThreshold time.Duration
	FallbackTick time.Duration
}

func (o Options) withDefaults() Options {
	if o.GapThreshold == 0 {
		o.GapThreshold = defaultGapThreshold
	}

	if o.FallbackTick == 0 {
		o.FallbackTick = defaultFallbackTick
	}

	return o
}

// DailySummary is the aggregate view of one calendar day.
type DailySummary struct {
	Date        string                            `json:"date"`
	Active      time.Duration                     `json:"active"`
	Idle        time.Duration                     `json:"idle"`
	Focus       time.Duration                     `json:"focus"`
	Distracted  time.Duration                     `json:"distracted"`
	SwitchCount int                               `json:"switch_count"`
	ByCategory  map[models.Category]time.Duration `json:"by_category"`
}

// sampleDuration mirrors the timeline builder's duration-inference rule.
// The duplication is deliberate: both views derive durations from the
// raw samples and are required to agree.
func sampleDuration(
	records []models.SampleRecord,
	i int,
	opts Options,
) time.Duration {
	if i == len(records)-1 {
		return opts.FallbackTick
	}

	gap := records[i+1].Timestamp.Sub(records[i].Timestamp)
	if gap > opts.GapThreshold {
		return opts.FallbackTick
	}

	return gap
}

// Summarize produces the daily summary for one day's ordered samples and
// the focus sessions started that day. Running sessions accrue focus
// time up to now.
func Summarize(
	day time.Time,
	records []models.SampleRecord,
	sessions []models.FocusSession,
	now time.Time,
	opts Options,
) DailySummary {
	opts = opts.withDefaults()

	summary := DailySummary{
		Date:       timeutil.FormatDay(day),
		ByCategory: make(map[models.Category]time.Duration),
	}

	for _, c := range models.Categories {
		summary.ByCategory[c] = 0
	}

	for i := range records {
		r := &records[i]

		duration := sampleDuration(records, i, opts)

		switch r.EventType {
		case models.EventActive:
			summary.Active += duration
			// every ACTIVE sample counts as one switch, even when it
			// merges with the previous segment on the timeline view
			summary.SwitchCount++

			cat := r.Category()
			if !cat.Known() {
				cat = models.CategoryOther
			}

			summary.ByCategory[cat] += duration
		case models.EventIdle:
			summary.Idle += duration
		}
	}

	// Focus time is the wall-clock span of each session, independent of
	// the activity accounting above. The two overlap and are not
	// reconciled.
	for i := range sessions {
		summary.Focus += sessions[i].Span(now)
	}

	return summary
}

// SampleSource is the slice of the store the aggregator reads from.
type SampleSource interface {
	SamplesForDay(ctx context.Context, day time.Time) ([]models.SampleRecord, error)
	SessionsStartedBetween(ctx context.Context, start, end time.Time) ([]models.FocusSession, error)
}

// ForDay reads one day's samples and sessions and summarizes them.
func ForDay(
	ctx context.Context,
	src SampleSource,
	day time.Time,
	opts Options,
) (DailySummary, error) {
	records, err := src.SamplesForDay(ctx, day)
	if err != nil {
		return DailySummary{}, err
	}

	sessions, err := src.SessionsStartedBetween(
		ctx,
		timeutil.RoundToStart(day),
		timeutil.RoundToEnd(day),
	)
	if err != nil {
		return DailySummary{}, err
	}

	return Summarize(day, records, sessions, time.Now(), opts), nil
}

// ForRange summarizes every day from start to end inclusive. Days with
// no recorded activity still produce a (zeroed) summary.
func ForRange(
	ctx context.Context,
	src SampleSource,
	start, end time.Time,
	opts Options,
) ([]DailySummary, error) {
	days := timeutil.Days(start, end)

	summaries := make([]DailySummary, 0, len(days))

	for _, day := range days {
		summary, err := ForDay(ctx, src, day, opts)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
