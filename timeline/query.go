package timeline

import (
	"context"
	"time"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/internal/timeutil"
)

// SampleSource is the slice of the store the timeline builder reads from.
type SampleSource interface {
	SamplesForDay(ctx context.Context, day time.Time) ([]models.SampleRecord, error)
}

// ForDay reads one day's samples and builds its timeline.
func ForDay(
	ctx context.Context,
	src SampleSource,
	day time.Time,
	opts Options,
) (Day, error) {
	records, err := src.SamplesForDay(ctx, day)
	if err != nil {
		return Day{}, err
	}

	return Day{
		Date:     timeutil.FormatDay(day),
		Segments: Build(records, opts),
	}, nil
}

// ForRange builds the timeline for every day from start to end
// inclusive, ascending. Days with no segments are omitted.
func ForRange(
	ctx context.Context,
	src SampleSource,
	start, end time.Time,
	opts Options,
) ([]Day, error) {
	var days []Day

	for _, d := range timeutil.Days(start, end) {
		day, err := ForDay(ctx, src, d, opts)
		if err != nil {
			return nil, err
		}

		if len(day.Segments) == 0 {
			continue
		}

		days = append(days, day)
	}

	return days, nil
}
