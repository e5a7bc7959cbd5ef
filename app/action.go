package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/focusflow/flowtrack/config"
	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/report"
	"github.com/focusflow/flowtrack/session"
	"github.com/focusflow/flowtrack/stats"
	"github.com/focusflow/flowtrack/store"
	"github.com/focusflow/flowtrack/timeline"
	"github.com/focusflow/flowtrack/tracker"
)

var errSamplerRequired = errors.New(
	"no sampler configured: set tracking.sampler_cmd or pass --sampler-cmd",
)

func openDB(cfg *config.Config) (*store.Client, error) {
	return store.NewClient(cfg.PathToDB)
}

func timelineOpts(cfg *config.Config) timeline.Options {
	return timeline.Options{
		GapThreshold: cfg.GapThreshold,
		FallbackTick: cfg.Interval,
	}
}

func statsOpts(cfg *config.Config) stats.Options {
	return stats.Options{
		GapThreshold: cfg.GapThreshold,
		FallbackTick: cfg.Interval,
	}
}

// queryCtx bounds a read-only query so a slow store cannot hang the CLI.
func queryCtx(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.QueryTimeout)
}

// resolveRangeStart replaces the all-time zero-start sentinel with the
// first recorded sample day so range queries never step through empty
// centuries. With nothing recorded yet the range collapses to its end
// day.
func resolveRangeStart(
	ctx context.Context,
	db store.DB,
	filter *config.FilterConfig,
) error {
	if !filter.StartTime.IsZero() {
		return nil
	}

	first, err := db.FirstSampleDay(ctx)
	if err != nil {
		return err
	}

	if first.IsZero() {
		first = filter.EndTime
	}

	filter.StartTime = first

	return nil
}

func trackAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	samplerCmd := cfg.SamplerCmd
	if v := ctx.String("sampler-cmd"); v != "" {
		samplerCmd = v
	}

	if samplerCmd == "" {
		return errSamplerRequired
	}

	sampler, err := tracker.NewCommandSampler(samplerCmd)
	if err != nil {
		return err
	}

	interval := cfg.Interval
	if v := ctx.Duration("interval"); v > 0 {
		interval = v
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	t := tracker.New(db, sampler, interval)

	t.Start(context.Background())

	pterm.Info.Printfln(
		"Tracking foreground activity every %s. Press Ctrl-C to stop.",
		interval,
	)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	t.Stop()

	return nil
}

func summaryAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	day, err := config.Day(ctx)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	summary, err := stats.ForDay(qctx, db, day, statsOpts(cfg))
	if err != nil {
		return err
	}

	report.Summary(&summary)

	return nil
}

func timelineAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	// no range flags means a single day
	if ctx.String("start") == "" && ctx.String("end") == "" &&
		ctx.String("period") == "" {
		day, err := config.Day(ctx)
		if err != nil {
			return err
		}

		tl, err := timeline.ForDay(qctx, db, day, timelineOpts(cfg))
		if err != nil {
			return err
		}

		report.Timeline(&tl)

		return nil
	}

	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	if err := resolveRangeStart(qctx, db, filter); err != nil {
		return err
	}

	days, err := timeline.ForRange(
		qctx,
		db,
		filter.StartTime,
		filter.EndTime,
		timelineOpts(cfg),
	)
	if err != nil {
		return err
	}

	report.TimelineRange(days)

	return nil
}

func topAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	day, err := config.Day(ctx)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	records, err := db.SamplesForDay(qctx, day)
	if err != nil {
		return err
	}

	apps := timeline.TopApps(records, ctx.Int("limit"), timelineOpts(cfg))

	report.TopApps(apps, day)

	return nil
}

func statsAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	if err := resolveRangeStart(qctx, db, filter); err != nil {
		return err
	}

	summaries, err := stats.ForRange(
		qctx,
		db,
		filter.StartTime,
		filter.EndTime,
		statsOpts(cfg),
	)
	if err != nil {
		return err
	}

	report.SummaryRange(summaries)

	return nil
}

func appsAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	listings, err := db.Apps(qctx)
	if err != nil {
		return err
	}

	report.Apps(listings)

	return nil
}

func setCategoryAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("usage: flowtrack set-category APP_ID CATEGORY")
	}

	appID := ctx.Args().Get(0)
	category := models.Category(strings.ToUpper(ctx.Args().Get(1)))

	if !category.Known() {
		return fmt.Errorf(
			"unknown category %q: must be one of %v",
			ctx.Args().Get(1),
			models.Categories,
		)
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	qctx, cancel := queryCtx(cfg)
	defer cancel()

	if err := db.SetAppCategory(qctx, appID, category); err != nil {
		return err
	}

	pterm.Success.Printfln("Category for %s set to %s", appID, category)

	return nil
}

// runSessionCmd executes the user-configured command when a session
// completes.
func runSessionCmd(sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session.cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	return exec.Command(cmdSlice[0], cmdSlice[1:]...).Run()
}

func sessionAction(ctx *cli.Context) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// recovery of orphaned sessions happens inside New, before any
	// session may start
	machine, err := session.New(context.Background(), db)
	if err != nil {
		return err
	}

	notify := cfg.Notify && !ctx.Bool("disable-notification")

	done := make(chan *session.Status, 1)

	machine.Subscribe(report.SessionStatus)
	machine.Subscribe(session.StatusFileObserver(cfg.PathToStatus))
	machine.Subscribe(func(status *session.Status) {
		if status == nil || status.State != models.StatusCompleted {
			return
		}

		if notify {
			if err := beeep.Notify(
				"Focus session complete",
				status.Goal,
				"",
			); err != nil {
				slog.Error("unable to display notification",
					slog.Any("error", err),
				)
			}
		}

		if err := runSessionCmd(cfg.SessionCmd); err != nil {
			slog.Error("session command failed", slog.Any("error", err))
		}

		select {
		case done <- status:
		default:
		}
	})

	durationMinutes := ctx.Int("duration")
	if durationMinutes <= 0 {
		durationMinutes = int(cfg.SessionDuration.Minutes())
	}

	status, err := machine.Start(context.Background(), session.Config{
		DurationMinutes: durationMinutes,
		TaskTitle:       ctx.String("task"),
	})
	if err != nil {
		return err
	}

	pterm.Info.Printfln(
		"%s (%d minutes). Type p to pause, r to resume, q to end early.",
		status.Goal,
		status.DurationMinutes,
	)

	go controlLoop(machine, status.SessionID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case final := <-done:
		report.SessionSummary(final)
		return nil
	case <-interrupt:
		final, err := machine.End(context.Background(), status.SessionID)
		if err != nil {
			return err
		}

		report.SessionSummary(final)

		return nil
	}
}

// controlLoop reads single-letter commands from stdin while a session
// runs.
func controlLoop(machine *session.Machine, sessionID string) {
	reader := bufio.NewReader(os.Stdin)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		switch strings.TrimSpace(line) {
		case "p":
			if err := machine.Pause(context.Background()); err != nil {
				pterm.Error.Println(err)
			}
		case "r":
			if err := machine.Resume(context.Background()); err != nil {
				pterm.Error.Println(err)
			}
		case "q":
			if _, err := machine.End(
				context.Background(),
				sessionID,
			); err != nil {
				pterm.Error.Println(err)
			}

			return
		}
	}
}
