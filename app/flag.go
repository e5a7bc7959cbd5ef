package app

import "github.com/urfave/cli/v2"

var (
	dateFlag = &cli.StringFlag{
		Name:    "date",
		Aliases: []string{"d"},
		Usage:   "Specify a calendar day in the format: YYYY-MM-DD (defaults to today)",
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Specify the first day of the range: YYYY-MM-DD",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "Specify the last day of the range: YYYY-MM-DD (defaults to today)",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Specify a time period. Possible values are: all-time, today, yesterday, 7days, 14days, 30days, 90days",
	}

	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Limit the number of apps shown",
		Value:   10,
	}

	durationFlag = &cli.IntFlag{
		Name:    "duration",
		Aliases: []string{"m"},
		Usage:   "Session length in minutes",
	}

	taskFlag = &cli.StringFlag{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "What the session is for",
	}

	intervalFlag = &cli.DurationFlag{
		Name:    "interval",
		Aliases: []string{"i"},
		Usage:   "Override the sampling interval (e.g. 2s)",
	}

	samplerCmdFlag = &cli.StringFlag{
		Name:  "sampler-cmd",
		Usage: "Command that reports the current foreground window as JSON",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:  "disable-notification",
		Usage: "Disable the desktop notification on session completion",
	}
)
