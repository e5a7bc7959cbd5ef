// Package logger configures the process-wide structured logger. Log
// output goes to a rotated file so it never interferes with the
// terminal reporting layer.
package logger

import (
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 30
)

var once sync.Once

// Init sets the default slog logger to write JSON records to the given
// file path with rotation. Subsequent calls are no-ops.
func Init(pathToLogFile string, debug bool) {
	once.Do(func() {
		w := &lumberjack.Logger{
			Filename:   pathToLogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})

		slog.SetDefault(slog.New(h))
	})
}
