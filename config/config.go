// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/focusflow/flowtrack/internal/pathutil"
)

// Version is set at build time.
var Version = "dev"

const (
	keyTrackingInterval     = "tracking.interval"
	keyTrackingGapThreshold = "tracking.gap_threshold"
	keyTrackingSamplerCmd   = "tracking.sampler_cmd"
	keySessionDuration      = "session.duration"
	keySessionCmd           = "session.cmd"
	keyNotificationsEnabled = "notifications.enabled"
	keyQueryTimeout         = "query.timeout"
	keyLoggingDebug         = "logging.debug"
)

// Config is the program configuration derived from the config file and
// command-line arguments.
type Config struct {
	Interval        time.Duration `json:"interval"`
	GapThreshold    time.Duration `json:"gap_threshold"`
	SamplerCmd      string        `json:"sampler_cmd"`
	SessionDuration time.Duration `json:"session_duration"`
	SessionCmd      string        `json:"session_cmd"`
	QueryTimeout    time.Duration `json:"query_timeout"`
	Notify          bool          `json:"notify"`
	Debug           bool          `json:"debug"`
	PathToConfig    string        `json:"path_to_config"`
	PathToDB        string        `json:"path_to_db"`
	PathToStatus    string        `json:"path_to_status"`
	PathToLog       string        `json:"path_to_log"`
}

var (
	cfg  *Config
	once sync.Once
)

var errInitFailed = errors.New(
	"unable to initialise flowtrack settings from the configuration file",
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyTrackingInterval, "2s")
	v.SetDefault(keyTrackingGapThreshold, "5m")
	v.SetDefault(keyTrackingSamplerCmd, "")
	v.SetDefault(keySessionDuration, "25m")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyQueryTimeout, "10s")
	v.SetDefault(keyLoggingDebug, false)
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file failed: %w", err)
		}

		// write the default config on first run
		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("writing default config failed: %w", err)
		}
	}

	c := &Config{
		Interval:        v.GetDuration(keyTrackingInterval),
		GapThreshold:    v.GetDuration(keyTrackingGapThreshold),
		SamplerCmd:      v.GetString(keyTrackingSamplerCmd),
		SessionDuration: v.GetDuration(keySessionDuration),
		SessionCmd:      v.GetString(keySessionCmd),
		QueryTimeout:    v.GetDuration(keyQueryTimeout),
		Notify:          v.GetBool(keyNotificationsEnabled),
		Debug:           v.GetBool(keyLoggingDebug),
		PathToConfig:    configPath,
		PathToDB:        pathutil.DBFilePath(),
		PathToStatus:    pathutil.StatusFilePath(),
		PathToLog:       pathutil.LogFilePath(),
	}

	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}

	if c.GapThreshold <= 0 {
		c.GapThreshold = 5 * time.Minute
	}

	return c, nil
}

// Get returns the program configuration, loading it on first call.
func Get() (*Config, error) {
	var err error

	once.Do(func() {
		if err = pathutil.Initialize(); err != nil {
			return
		}

		cfg, err = load(pathutil.ConfigFilePath())
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInitFailed, err)
	}

	if cfg == nil {
		return nil, errInitFailed
	}

	return cfg, nil
}
