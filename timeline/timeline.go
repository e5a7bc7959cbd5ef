// Package timeline converts a day's ordered activity samples into merged
// visual timeline segments and per-app totals.
package timeline

import (
	"sort"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
)

const (
	// DefaultGapThreshold bounds the inferred duration of a sample. A gap
	// to the next sample beyond this means the tracker was not running,
	// not that the app was in front the whole time.
	DefaultGapThreshold = 5 * time.Minute

	// DefaultFallbackTick is the duration assigned to a sample with no
	// bounding next sample, matching the default sampling interval.
	DefaultFallbackTick = 2000 * time.Millisecond
)

// Options tunes the duration-inference rule.
type Options struct {
	GapThreshold time.Duration
	FallbackTick time.Duration
}

func (o Options) withDefaults() Options {
	if o.GapThreshold == 0 {
		o.GapThreshold = DefaultGapThreshold
	}

	if o.FallbackTick == 0 {
		o.FallbackTick = DefaultFallbackTick
	}

	return o
}

// Segment is a maximal run of consecutive samples sharing both display
// name and kind.
type Segment struct {
	StartTime time.Time          `json:"start_time"`
	EndTime   time.Time          `json:"end_time"`
	Duration  time.Duration      `json:"duration"`
	App       *models.App        `json:"app,omitempty"`
	Category  models.Category    `json:"category"`
	Kind      models.SegmentKind `json:"kind"`
}

// Day is the timeline for one calendar day.
type Day struct {
	Date     string    `json:"date"`
	Segments []Segment `json:"segments"`
}

// sampleDuration infers the effective duration of the sample at index i.
// The aggregator applies the same rule independently; the two must agree.
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

// Build merges the day's ordered samples into contiguous segments. A new
// segment starts whenever the display name or the kind changes; category
// is resolved from the first sample of each segment and does not affect
// merging.
func Build(records []models.SampleRecord, opts Options) []Segment {
	opts = opts.withDefaults()

	var (
		segments []Segment
		open     *Segment
		openName string
	)

	for i := range records {
		r := &records[i]

		duration := sampleDuration(records, i, opts)
		name := r.DisplayName()
		kind := r.Kind()

		if open != nil && openName == name && open.Kind == kind {
			open.Duration += duration
			open.EndTime = open.EndTime.Add(duration)

			continue
		}

		segments = append(segments, Segment{
			StartTime: r.Timestamp,
			EndTime:   r.Timestamp.Add(duration),
			Duration:  duration,
			App:       r.App,
			Category:  r.Category(),
			Kind:      kind,
		})

		open = &segments[len(segments)-1]
		openName = name
	}

	return segments
}

// TopApp is the accumulated foreground time for one app.
type TopApp struct {
	AppID       string          `json:"app_id"`
	DisplayName string          `json:"display_name"`
	Duration    time.Duration   `json:"duration"`
	Category    models.Category `json:"category"`
}

// TopApps regroups the day's ACTIVE samples by app, sorted by descending
// duration and truncated to limit. Samples with no app are skipped.
func TopApps(
	records []models.SampleRecord,
	limit int,
	opts Options,
) []TopApp {
	opts = opts.withDefaults()

	totals := make(map[string]*TopApp)

	var order []string

	for i := range records {
		r := &records[i]

		if r.EventType != models.EventActive || r.App == nil {
			continue
		}

		duration := sampleDuration(records, i, opts)

		entry, ok := totals[r.App.ID]
		if !ok {
			entry = &TopApp{
				AppID:       r.App.ID,
				DisplayName: r.App.Name,
				Category:    r.Category(),
			}
			totals[r.App.ID] = entry

			order = append(order, r.App.ID)
		}

		entry.Duration += duration
	}

	apps := make([]TopApp, 0, len(order))
	for _, id := range order {
		apps = append(apps, *totals[id])
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].Duration > apps[j].Duration
	})

	if limit > 0 && len(apps) > limit {
		apps = apps[:limit]
	}

	return apps
}
