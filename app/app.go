// Package app wires the flowtrack command-line interface.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/focusflow/flowtrack/config"
	"github.com/focusflow/flowtrack/internal/logger"
)

const (
	envNoColor          = "NO_COLOR"
	envFlowtrackNoColor = "FLOWTRACK_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the flowtrack app instance.
func Get() *cli.App {
	flowtrackApp := &cli.App{
		Name: "flowtrack",
		Usage: `
		Flowtrack records which application is in front of you, turns the raw
		activity stream into a daily timeline and per-category statistics, and
		runs distraction-free focus sessions.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "track",
				Usage:  "Run the foreground-activity sampling loop",
				Action: trackAction,
				Flags:  []cli.Flag{intervalFlag, samplerCmdFlag},
			},
			{
				Name:   "summary",
				Usage:  "Show the aggregate statistics for one day",
				Action: summaryAction,
				Flags:  []cli.Flag{dateFlag},
			},
			{
				Name:   "timeline",
				Usage:  "Show the merged activity timeline for a day or a range of days",
				Action: timelineAction,
				Flags:  []cli.Flag{dateFlag, startFlag, endFlag, periodFlag},
			},
			{
				Name:   "top",
				Usage:  "Show the applications with the most foreground time for one day",
				Action: topAction,
				Flags:  []cli.Flag{dateFlag, limitFlag},
			},
			{
				Name:   "stats",
				Usage:  "Show daily statistics for a range of days, empty days included",
				Action: statsAction,
				Flags:  []cli.Flag{startFlag, endFlag, periodFlag},
			},
			{
				Name:   "apps",
				Usage:  "List every tracked application and its category",
				Action: appsAction,
			},
			{
				Name:      "set-category",
				Usage:     "Assign a category to an application",
				UsageText: "flowtrack set-category APP_ID CATEGORY",
				Action:    setCategoryAction,
			},
			{
				Name:   "session",
				Usage:  "Start a focus session and count it down",
				Action: sessionAction,
				Flags: []cli.Flag{
					durationFlag,
					taskFlag,
					disableNotificationFlag,
				},
			},
		},
		Before: func(ctx *cli.Context) error {
			// Override the default help template
			cli.AppHelpTemplate = helpText()

			if _, exists := os.LookupEnv(envFlowtrackNoColor); exists {
				disableStyling()
			}

			if _, exists := os.LookupEnv(envNoColor); exists {
				disableStyling()
			}

			cfg, err := config.Get()
			if err != nil {
				return err
			}

			logger.Init(cfg.PathToLog, cfg.Debug)

			return nil
		},
	}

	return flowtrackApp
}
