// Package timeutil provides calendar-day helpers shared by the timeline
// builder, the aggregator, and the CLI filters.
package timeutil

import (
	"fmt"
	"time"
)

// DayFormat is the layout for calendar-day strings exchanged with the
// query surface. Days are always interpreted in local time.
const DayFormat = "2006-01-02"

// Period is a named reporting period accepted by the stats commands.
type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
)

// Range maps a period to its day offset from today.
var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
}

// ParseDay parses a YYYY-MM-DD string as the start of that calendar day
// in local time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	return t, nil
}

// FormatDay renders a time value as its YYYY-MM-DD calendar day.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		999000000,
		t.Location(),
	)
}

// Days returns every calendar day from start to end inclusive, stepped
// one day at a time. An end before start yields nil.
func Days(start, end time.Time) []time.Time {
	start = RoundToStart(start)
	end = RoundToStart(end)

	var days []time.Time

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	return days
}

// ToKey converts a time value to a Bolt database key.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
