package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/store"
)

func newClient(t *testing.T) *store.Client {
	t.Helper()

	client, err := store.NewClient(
		filepath.Join(t.TempDir(), "flowtrack.db"),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestEnsureApp_CreatesAppWithDefaultRule(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	app, err := client.EnsureApp(ctx, "Chrome", "/usr/bin/chrome")
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "Chrome", app.Name)
	assert.Equal(t, "/usr/bin/chrome", app.Path)

	listings, err := client.Apps(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.Equal(t, app.ID, listings[0].Rule.AppID)
	assert.Equal(t, models.CategoryOther, listings[0].Rule.Category)
}

func TestEnsureApp_ReturnsStableID(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	first, err := client.EnsureApp(ctx, "Chrome", "/usr/bin/chrome")
	require.NoError(t, err)

	second, err := client.EnsureApp(ctx, "Chrome", "/usr/bin/chrome")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureApp_RefreshesPath(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	first, err := client.EnsureApp(ctx, "Chrome", "/usr/bin/chrome")
	require.NoError(t, err)

	second, err := client.EnsureApp(ctx, "Chrome", "/opt/chrome/chrome")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "/opt/chrome/chrome", second.Path)
}

func TestSamplesForDay_OrdersAndJoins(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	app, err := client.EnsureApp(ctx, "Editor", "/usr/bin/editor")
	require.NoError(t, err)

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)

	// insertion order differs from chronological order, and the
	// round-second timestamp produces a shorter RFC3339Nano key than its
	// sub-second neighbors
	samples := []models.ActivitySample{
		{
			Timestamp: day.Add(9*time.Hour + 4*time.Second),
			EventType: models.EventActive,
			AppID:     app.ID,
		},
		{
			Timestamp: day.Add(9*time.Hour + 500*time.Millisecond),
			EventType: models.EventActive,
			AppID:     app.ID,
		},
		{
			Timestamp: day.Add(9 * time.Hour),
			EventType: models.EventIdle,
		},
	}

	for i := range samples {
		require.NoError(t, client.SaveSample(ctx, &samples[i]))
	}

	records, err := client.SamplesForDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, records, 3)

	want := []models.SampleRecord{
		{ActivitySample: samples[2]},
		{
			ActivitySample: samples[1],
			App:            app,
			Rule: &models.AppRule{
				AppID:    app.ID,
				Category: models.CategoryOther,
			},
		},
		{
			ActivitySample: samples[0],
			App:            app,
			Rule: &models.AppRule{
				AppID:    app.ID,
				Category: models.CategoryOther,
			},
		},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSamplesForDay_IsolatesDays(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)
	nextDay := day.AddDate(0, 0, 1)

	require.NoError(t, client.SaveSample(ctx, &models.ActivitySample{
		Timestamp: day.Add(9 * time.Hour),
		EventType: models.EventIdle,
	}))
	require.NoError(t, client.SaveSample(ctx, &models.ActivitySample{
		Timestamp: nextDay.Add(9 * time.Hour),
		EventType: models.EventIdle,
	}))

	records, err := client.SamplesForDay(ctx, day)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = client.SamplesForDay(ctx, nextDay)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = client.SamplesForDay(ctx, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFirstSampleDay(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	first, err := client.FirstSampleDay(ctx)
	require.NoError(t, err)
	assert.True(t, first.IsZero())

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)

	require.NoError(t, client.SaveSample(ctx, &models.ActivitySample{
		Timestamp: day.AddDate(0, 0, 3).Add(9 * time.Hour),
		EventType: models.EventIdle,
	}))
	require.NoError(t, client.SaveSample(ctx, &models.ActivitySample{
		Timestamp: day.Add(9 * time.Hour),
		EventType: models.EventIdle,
	}))

	first, err = client.FirstSampleDay(ctx)
	require.NoError(t, err)
	assert.Equal(t, day, first)
}

func TestSetAppCategory(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	app, err := client.EnsureApp(ctx, "Slack", "/usr/bin/slack")
	require.NoError(t, err)

	require.NoError(
		t,
		client.SetAppCategory(ctx, app.ID, models.CategoryComm),
	)

	listings, err := client.Apps(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, models.CategoryComm, listings[0].Rule.Category)
}

func TestSetAppCategory_UnknownApp(t *testing.T) {
	client := newClient(t)

	err := client.SetAppCategory(
		context.Background(),
		"APP-missing",
		models.CategoryWork,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP-missing")
}

func TestSessionLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	start := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)

	sess := models.FocusSession{
		ID:        "FS-1",
		Goal:      "deep work",
		StartTime: start,
		Status:    models.StatusRunning,
		Duration:  25 * time.Minute,
	}

	require.NoError(t, client.CreateSession(ctx, &sess))

	running, err := client.RunningSessions(ctx)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "FS-1", running[0].ID)

	sess.Status = models.StatusCompleted
	sess.EndTime = start.Add(25 * time.Minute)
	require.NoError(t, client.UpdateSession(ctx, &sess))

	running, err = client.RunningSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, running)
}

func TestSessionsStartedBetween_BoundsAreInclusive(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	dayStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	sessions := []models.FocusSession{
		{ID: "FS-before", StartTime: dayStart.Add(-time.Minute)},
		{ID: "FS-open", StartTime: dayStart},
		{ID: "FS-noon", StartTime: dayStart.Add(12 * time.Hour)},
		{ID: "FS-after", StartTime: dayStart.AddDate(0, 0, 1)},
	}

	for i := range sessions {
		sessions[i].Status = models.StatusCompleted
		require.NoError(t, client.CreateSession(ctx, &sessions[i]))
	}

	got, err := client.SessionsStartedBetween(ctx, dayStart, dayEnd)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "FS-open", got[0].ID)
	assert.Equal(t, "FS-noon", got[1].ID)
}

func TestSessionEvents_FiltersBySession(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	at := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.Local)

	events := []models.FocusSessionEvent{
		{SessionID: "FS-1", Type: models.SessionEventPause, Timestamp: at},
		{
			SessionID: "FS-2",
			Type:      models.SessionEventPause,
			Timestamp: at.Add(time.Minute),
		},
		{
			SessionID: "FS-1",
			Type:      models.SessionEventResume,
			Timestamp: at.Add(2 * time.Minute),
		},
	}

	for i := range events {
		require.NoError(t, client.AppendSessionEvent(ctx, &events[i]))
	}

	got, err := client.SessionEvents(ctx, "FS-1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, models.SessionEventPause, got[0].Type)
	assert.Equal(t, models.SessionEventResume, got[1].Type)
}

func TestContextCancellationIsRespected(t *testing.T) {
	client := newClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SamplesForDay(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
