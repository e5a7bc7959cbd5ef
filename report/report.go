// Package report renders daily summaries, timelines, and session status
// for the terminal.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/internal/timeutil"
	"github.com/focusflow/flowtrack/internal/ui"
	"github.com/focusflow/flowtrack/session"
	"github.com/focusflow/flowtrack/stats"
	"github.com/focusflow/flowtrack/store"
	"github.com/focusflow/flowtrack/timeline"
)

const barChartChar = "▇"

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "0 seconds"
	}

	//nolint:gomnd // limit to first 2 units
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

// Summary prints one day's aggregate statistics with a category
// breakdown chart.
func Summary(s *stats.DailySummary) {
	header := fmt.Sprintf("%s\n", ui.Blue("Summary for "+s.Date))

	body := fmt.Sprintf(
		"Active: %s\nIdle: %s\nFocus: %s\nApp switches: %d\n",
		ui.Green(fmtDuration(s.Active)),
		ui.Yellow(fmtDuration(s.Idle)),
		ui.Magenta(fmtDuration(s.Focus)),
		s.SwitchCount,
	)

	fmt.Fprint(os.Stdout, header, body)

	var bars pterm.Bars

	for _, c := range models.Categories {
		bars = append(bars, pterm.Bar{
			Label: string(c),
			Value: int(s.ByCategory[c].Round(time.Minute).Minutes()),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return
	}

	fmt.Fprintln(os.Stdout, ui.Blue("\nCategory breakdown (minutes)")+chart)
}

// SummaryRange prints one table row per day in the range, empty days
// included.
func SummaryRange(summaries []stats.DailySummary) {
	tableBody := make([][]string, 0, len(summaries)+1)

	tableBody = append(tableBody, []string{
		"DATE", "ACTIVE", "IDLE", "FOCUS", "SWITCHES",
	})

	for i := range summaries {
		s := &summaries[i]

		tableBody = append(tableBody, []string{
			s.Date,
			fmtDuration(s.Active),
			fmtDuration(s.Idle),
			fmtDuration(s.Focus),
			fmt.Sprintf("%d", s.SwitchCount),
		})
	}

	ui.PrintTable(tableBody, os.Stdout)
}

// Timeline prints a day's merged activity segments.
func Timeline(day *timeline.Day) {
	if len(day.Segments) == 0 {
		pterm.Info.Printfln("No activity recorded on %s", day.Date)
		return
	}

	tableBody := make([][]string, 0, len(day.Segments)+1)

	tableBody = append(tableBody, []string{
		"START", "END", "DURATION", "APP", "CATEGORY", "KIND",
	})

	for i := range day.Segments {
		seg := &day.Segments[i]

		name := "Unknown"
		if seg.App != nil {
			name = seg.App.Name
		}

		tableBody = append(tableBody, []string{
			seg.StartTime.Format("15:04:05"),
			seg.EndTime.Format("15:04:05"),
			fmtDuration(seg.Duration),
			name,
			string(seg.Category),
			string(seg.Kind),
		})
	}

	fmt.Fprintln(os.Stdout, ui.Blue("Timeline for "+day.Date))
	ui.PrintTable(tableBody, os.Stdout)
}

// TimelineRange prints each non-empty day's timeline in ascending order.
func TimelineRange(days []timeline.Day) {
	if len(days) == 0 {
		pterm.Info.Println("No activity recorded in the specified range")
		return
	}

	for i := range days {
		Timeline(&days[i])
	}
}

// TopApps prints the day's applications ranked by foreground time.
func TopApps(apps []timeline.TopApp, day time.Time) {
	if len(apps) == 0 {
		pterm.Info.Printfln(
			"No foreground activity recorded on %s",
			timeutil.FormatDay(day),
		)

		return
	}

	tableBody := make([][]string, 0, len(apps)+1)

	tableBody = append(tableBody, []string{"#", "APP", "TIME", "CATEGORY"})

	for i := range apps {
		tableBody = append(tableBody, []string{
			fmt.Sprintf("%d", i+1),
			apps[i].DisplayName,
			fmtDuration(apps[i].Duration),
			string(apps[i].Category),
		})
	}

	ui.PrintTable(tableBody, os.Stdout)
}

// Apps prints every known application and its rule.
func Apps(listings []store.AppListing) {
	if len(listings) == 0 {
		pterm.Info.Println("No applications tracked yet")
		return
	}

	tableBody := make([][]string, 0, len(listings)+1)

	tableBody = append(tableBody, []string{"ID", "NAME", "CATEGORY", "BLOCKED"})

	for i := range listings {
		l := &listings[i]

		blocked := ""
		if l.Rule.IsBlocked {
			blocked = "yes"
		}

		tableBody = append(tableBody, []string{
			l.App.ID,
			l.App.Name,
			string(l.Rule.Category),
			blocked,
		})
	}

	ui.PrintTable(tableBody, os.Stdout)
}

// SessionStatus prints a one-line session update suitable for the
// countdown display.
func SessionStatus(status *session.Status) {
	if status == nil {
		fmt.Fprint(os.Stdout, "\r\033[KNo active session\n")
		return
	}

	mins := status.RemainingSeconds / 60
	secs := status.RemainingSeconds % 60

	switch status.State {
	case models.StatusCompleted:
		fmt.Fprintf(
			os.Stdout,
			"\r\033[K%s %s\n",
			ui.Green("Session completed:"),
			status.Goal,
		)
	case models.StatusPaused:
		fmt.Fprintf(
			os.Stdout,
			"\r\033[K%s [%s] %02d:%02d",
			ui.Yellow("[paused]"),
			status.Goal,
			mins,
			secs,
		)
	default:
		fmt.Fprintf(
			os.Stdout,
			"\r\033[K[%s] 🕒%s:%s",
			status.Goal,
			ui.Yellow(fmt.Sprintf("%02d", mins)),
			ui.Yellow(fmt.Sprintf("%02d", secs)),
		)
	}
}

// SessionSummary prints the final report for an ended session.
func SessionSummary(status *session.Status) {
	if status == nil {
		return
	}

	elapsed := strings.TrimSpace(fmtDuration(status.Elapsed))

	pterm.Info.Printfln(
		"%s: %s elapsed of a %d minute goal",
		status.Goal,
		elapsed,
		status.DurationMinutes,
	)
}
