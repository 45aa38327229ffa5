package usage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAggregates(t *testing.T) {
	tracker, err := NewTracker(t.TempDir())
	require.NoError(t, err)

	tracker.Track("gemini", "gemini-2.5-flash", StageSynthesis, "s1", 1000, 200)
	tracker.Track("gemini", "gemini-2.5-flash", StageFormatting, "s1", 500, 300)
	tracker.Track("ollama", "gemma3:4b", StageSynthesis, "s2", 100, 50)
	tracker.TrackAnalysis()

	stats := tracker.Stats()
	assert.Equal(t, int64(1600), stats.Total.Input)
	assert.Equal(t, int64(550), stats.Total.Output)
	assert.Equal(t, int64(2150), stats.Total.Total)
	assert.Equal(t, int64(1), stats.Analyses)

	assert.Equal(t, int64(2000), stats.ByProvider["gemini"].Total)
	assert.Equal(t, int64(150), stats.ByProvider["ollama"].Total)
	assert.Equal(t, int64(1350), stats.ByStage[StageSynthesis].Total)
	assert.Equal(t, int64(800), stats.ByStage[StageFormatting].Total)
	assert.Equal(t, int64(2000), stats.BySession["s1"].Total)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	tracker, err := NewTracker(dir)
	require.NoError(t, err)
	tracker.Track("gemini", "gemini-2.5-flash", StageSynthesis, "s1", 10, 5)
	require.NoError(t, tracker.Save())

	reloaded, err := NewTracker(dir)
	require.NoError(t, err)
	stats := reloaded.Stats()
	assert.Equal(t, int64(15), stats.Total.Total)
	assert.Equal(t, int64(15), stats.ByModel["gemini-2.5-flash"].Total)
}

func TestCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usage.json"), []byte("{broken"), 0644))

	tracker, err := NewTracker(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tracker.Stats().Total.Total)
}

func TestStatsReturnsCopy(t *testing.T) {
	tracker, err := NewTracker(t.TempDir())
	require.NoError(t, err)
	tracker.Track("gemini", "m", StageSynthesis, "s", 1, 1)

	stats := tracker.Stats()
	stats.ByProvider["gemini"] = TokenCounts{Total: 999}

	assert.Equal(t, int64(2), tracker.Stats().ByProvider["gemini"].Total)
}
