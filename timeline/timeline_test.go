package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow/flowtrack/internal/models"
	"github.com/focusflow/flowtrack/internal/testutil"
)

var base = time.Date(2026, time.August, 24, 0, 0, 0, 0, time.Local)

var (
	chrome, chromeRule = testutil.AppFixture("APP-1", "Chrome", models.CategoryEnt)
	editor, editorRule = testutil.AppFixture("APP-2", "Editor", models.CategoryWork)
)

func TestBuild_MergesConsecutiveSameAppSamples(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(chrome, chromeRule, base.Add(2*time.Second)),
		testutil.ActiveSample(editor, editorRule, base.Add(4*time.Second)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 2)

	assert.Equal(t, base, segments[0].StartTime)
	assert.Equal(t, base.Add(4*time.Second), segments[0].EndTime)
	assert.Equal(t, 4*time.Second, segments[0].Duration)
	assert.Equal(t, "Chrome", segments[0].App.Name)
	assert.Equal(t, models.CategoryEnt, segments[0].Category)
	assert.Equal(t, models.KindForeground, segments[0].Kind)

	assert.Equal(t, base.Add(4*time.Second), segments[1].StartTime)
	assert.Equal(t, 2*time.Second, segments[1].Duration)
	assert.Equal(t, "Editor", segments[1].App.Name)
}

func TestBuild_KindChangeStartsNewSegment(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.IdleSample(base.Add(2 * time.Second)),
		testutil.IdleSample(base.Add(4 * time.Second)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 2)
	assert.Equal(t, models.KindForeground, segments[0].Kind)
	assert.Equal(t, models.KindIdle, segments[1].Kind)
	assert.Equal(t, 4*time.Second, segments[1].Duration)
	assert.Equal(t, models.CategoryUncategorized, segments[1].Category)
}

func TestBuild_GapClampUsesFallbackTick(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(chrome, chromeRule, base.Add(6*time.Minute)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 1)
	// the 6 minute gap is clamped to the fallback tick, and the final
	// sample contributes another tick
	assert.Equal(t, 4*time.Second, segments[0].Duration)
}

func TestBuild_GapAtThresholdIsNotClamped(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(chrome, chromeRule, base.Add(5*time.Minute)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 1)
	assert.Equal(t, 5*time.Minute+2*time.Second, segments[0].Duration)
}

func TestBuild_EmptyDay(t *testing.T) {
	assert.Empty(t, Build(nil, Options{}))
}

func TestBuild_SingleSampleGetsFallbackTick(t *testing.T) {
	segments := Build(
		[]models.SampleRecord{testutil.ActiveSample(chrome, chromeRule, base)},
		Options{},
	)

	require.Len(t, segments, 1)
	assert.Equal(t, DefaultFallbackTick, segments[0].Duration)
	assert.Equal(t, base.Add(DefaultFallbackTick), segments[0].EndTime)
}

func TestBuild_UnknownAppUsesPlaceholderName(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(nil, nil, base),
		testutil.ActiveSample(nil, nil, base.Add(2*time.Second)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 1)
	assert.Nil(t, segments[0].App)
	assert.Equal(t, models.CategoryUncategorized, segments[0].Category)
}

func TestBuild_SegmentsAreContiguousPerRun(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(editor, editorRule, base.Add(2*time.Second)),
		testutil.IdleSample(base.Add(5 * time.Second)),
		testutil.ActiveSample(editor, editorRule, base.Add(9*time.Second)),
	}

	segments := Build(records, Options{})

	require.Len(t, segments, 4)

	var total time.Duration

	for i, seg := range segments {
		total += seg.Duration

		assert.Equal(t, seg.StartTime.Add(seg.Duration), seg.EndTime)

		if i > 0 {
			assert.Equal(t, segments[i-1].EndTime, seg.StartTime)
		}
	}

	// per-sample durations: 2s + 3s + 4s + fallback 2s
	assert.Equal(t, 11*time.Second, total)
}

func TestTopApps_RanksByDescendingDuration(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(editor, editorRule, base.Add(2*time.Second)),
		testutil.ActiveSample(editor, editorRule, base.Add(4*time.Second)),
		testutil.IdleSample(base.Add(6 * time.Second)),
	}

	apps := TopApps(records, 10, Options{})

	require.Len(t, apps, 2)
	assert.Equal(t, "Editor", apps[0].DisplayName)
	assert.Equal(t, 4*time.Second, apps[0].Duration)
	assert.Equal(t, models.CategoryWork, apps[0].Category)
	assert.Equal(t, "Chrome", apps[1].DisplayName)
	assert.Equal(t, 2*time.Second, apps[1].Duration)
}

func TestTopApps_TruncatesToLimit(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(chrome, chromeRule, base),
		testutil.ActiveSample(editor, editorRule, base.Add(2*time.Second)),
	}

	apps := TopApps(records, 1, Options{})

	require.Len(t, apps, 1)
}

func TestTopApps_SkipsSamplesWithoutApp(t *testing.T) {
	records := []models.SampleRecord{
		testutil.ActiveSample(nil, nil, base),
		testutil.IdleSample(base.Add(2 * time.Second)),
	}

	assert.Empty(t, TopApps(records, 10, Options{}))
}
