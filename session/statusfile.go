package session

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/focusflow/flowtrack/internal/models"
)

// StatusFileObserver returns an observer that mirrors the current
// session status to a JSON file for out-of-process inspection. The file
// is removed when no session is current or the session reaches a
// terminal state.
func StatusFileObserver(path string) Observer {
	return func(status *Status) {
		if status == nil || terminal(status.State) {
			_ = os.Remove(path)
			return
		}

		b, err := json.Marshal(status)
		if err != nil {
			return
		}

		if err := os.WriteFile(path, b, 0o600); err != nil {
			slog.Error("unable to write status file",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
	}
}

func terminal(s models.SessionStatus) bool {
	return s == models.StatusCompleted || s == models.StatusAborted
}
