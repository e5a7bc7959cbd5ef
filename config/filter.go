package config

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/urfave/cli/v2"

	"github.com/focusflow/flowtrack/internal/timeutil"
)

var (
	errInvalidDateRange = errors.New(
		"the end date must not be earlier than the start date",
	)

	errInvalidPeriod = errors.New(
		"please provide a valid time period",
	)
)

// FilterConfig bounds a query to an inclusive range of calendar days.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
}

// getTimeRange returns the start and end time according to the
// specified time period.
func getTimeRange(period timeutil.Period) (start, end time.Time) {
	now := time.Now()

	start = timeutil.RoundToStart(now)
	end = timeutil.RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case timeutil.PeriodAllTime:
		// the zero start is a sentinel resolved against the first
		// recorded sample day at query time
		start = time.Time{}

		return
	case timeutil.PeriodToday:
		return
	case timeutil.PeriodYesterday:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
		end = timeutil.RoundToEnd(start)

		return
	default:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
	}

	return
}

// Filter builds the day range for a query from command-line arguments.
// A named period wins over explicit start/end dates; the default range
// is the last seven days.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	period := timeutil.Period(strings.TrimSpace(ctx.String("period")))

	if period != "" && !slices.Contains(timeutil.PeriodCollection, period) {
		return nil, errInvalidPeriod
	}

	filterCfg := &FilterConfig{}

	if period != "" {
		filterCfg.StartTime, filterCfg.EndTime = getTimeRange(period)

		return filterCfg, nil
	}

	filterCfg.StartTime, filterCfg.EndTime = getTimeRange(timeutil.Period7Days)

	if start := ctx.String("start"); start != "" {
		dateTime, err := dateparse.ParseIn(start, time.Local)
		if err != nil {
			return nil, err
		}

		filterCfg.StartTime = timeutil.RoundToStart(dateTime)
	}

	if end := ctx.String("end"); end != "" {
		dateTime, err := dateparse.ParseIn(end, time.Local)
		if err != nil {
			return nil, err
		}

		filterCfg.EndTime = timeutil.RoundToEnd(dateTime)
	}

	if filterCfg.EndTime.Before(filterCfg.StartTime) {
		return nil, errInvalidDateRange
	}

	return filterCfg, nil
}

// Day resolves the single calendar day for a query from the --date flag,
// defaulting to today.
func Day(ctx *cli.Context) (time.Time, error) {
	date := strings.TrimSpace(ctx.String("date"))
	if date == "" {
		return timeutil.RoundToStart(time.Now()), nil
	}

	return timeutil.ParseDay(date)
}
