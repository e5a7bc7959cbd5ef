package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow/flowtrack/internal/models"
)

func TestStatusFileObserver_WritesAndRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	obs := StatusFileObserver(path)

	obs(&Status{
		SessionID:        "FS-1",
		Goal:             "deep work",
		State:            models.StatusRunning,
		DurationMinutes:  25,
		RemainingSeconds: 1490,
	})

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Status
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, "FS-1", got.SessionID)
	assert.Equal(t, models.StatusRunning, got.State)
	assert.Equal(t, 1490, got.RemainingSeconds)

	// a session that has not ended carries no end_time key at all
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.NotContains(t, raw, "end_time")

	// a terminal status removes the file
	obs(&Status{SessionID: "FS-1", State: models.StatusCompleted})

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStatusFileObserver_NilStatusRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	obs := StatusFileObserver(path)

	obs(&Status{SessionID: "FS-1", State: models.StatusPaused})

	_, err := os.Stat(path)
	require.NoError(t, err)

	obs(nil)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
