package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// CommandSampler shells out to a user-configured command for each
// observation. The command prints a single JSON object:
//
//	{"app_name": "...", "app_path": "...", "window_title": "...", "idle": false}
//
// An empty output means nothing is in the foreground and the tick is
// skipped. This keeps OS-specific window inspection outside the core.
type CommandSampler struct {
	name string
	args []string
}

// NewCommandSampler parses the configured sampler command line.
func NewCommandSampler(cmdLine string) (*CommandSampler, error) {
	cmdSlice, err := shellquote.Split(cmdLine)
	if err != nil {
		return nil, fmt.Errorf("unable to parse sampler_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil, fmt.Errorf("sampler_cmd option is empty")
	}

	return &CommandSampler{
		name: cmdSlice[0],
		args: cmdSlice[1:],
	}, nil
}

func (c *CommandSampler) Sample(ctx context.Context) (*Sample, error) {
	out, err := exec.CommandContext(ctx, c.name, c.args...).Output()
	if err != nil {
		return nil, err
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}

	var payload struct {
		AppName     string `json:"app_name"`
		AppPath     string `json:"app_path"`
		WindowTitle string `json:"window_title"`
		Idle        bool   `json:"idle"`
	}

	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("unable to decode sampler output: %w", err)
	}

	if payload.AppName == "" && !payload.Idle {
		return nil, nil
	}

	return &Sample{
		AppName:     payload.AppName,
		AppPath:     payload.AppPath,
		WindowTitle: payload.WindowTitle,
		Idle:        payload.Idle,
	}, nil
}
