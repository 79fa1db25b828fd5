//go:build basic || database

package integration

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/pmcharts/pmc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeriesMatchesRecurrence imports workouts into a fresh SQLite store and
// verifies the printed long and short term stress against the EWMA recurrence.
func TestSeriesMatchesRecurrence(t *testing.T) {
	env := []string{
		"PMC_STORE_BACKEND=sqlite",
		"PMC_STORE_DB_CONNECT=" + filepath.Join(t.TempDir(), "pmc.db"),
		"PMC_TODAY=2025-01-05",
	}

	out := runPMC(t, env, "import", writeWorkouts(t))
	assert.Contains(t, out, "Imported 4 observations")

	out = runPMC(t, env, "series", "--track", "actual", "--start", "2025-01-01", "--end", "2025-01-06", "--output", "json")
	var result schema.SeriesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Points, 6)

	stress := []float64{100, 40, 0, 120, 0, 0}
	longDecay := math.Exp(-1.0 / 42)
	shortDecay := math.Exp(-1.0 / 7)
	var lts, sts float64
	for i, p := range result.Points {
		lts = stress[i]*(1-longDecay) + lts*longDecay
		sts = stress[i]*(1-shortDecay) + sts*shortDecay
		assert.InDelta(t, stress[i], p.Stress, 1e-9, p.Date)
		assert.InDelta(t, lts, p.LTS, 1e-9, p.Date)
		assert.InDelta(t, sts, p.STS, 1e-9, p.Date)
	}
}

// TestRecordCommands exercises the observation, season and store commands against SQLite.
func TestRecordCommands(t *testing.T) {
	dir := t.TempDir()
	env := []string{
		"PMC_STORE_BACKEND=sqlite",
		"PMC_STORE_DB_CONNECT=" + filepath.Join(dir, "pmc.db"),
		"PMC_TODAY=2025-01-05",
	}

	runPMC(t, env, "store", "migrate")
	runPMC(t, env, "import", writeWorkouts(t))
	runPMC(t, env, "observation", "add", "today", "--sport", "swim", "--set", "tss=30")
	runPMC(t, env, "season", "add", "winter", "2024-12-01", "--seed", "50")

	out := runPMC(t, env, "observation", "list", "--output", "json")
	var items []schema.Observation
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 5)

	out = runPMC(t, env, "season", "list", "--output", "json")
	var seasons []schema.Season
	require.NoError(t, json.Unmarshal([]byte(out), &seasons))
	require.Len(t, seasons, 1)
	require.True(t, seasons[0].HasSeed())
	assert.InDelta(t, 50.0, *seasons[0].Seed, 1e-9)

	out = runPMC(t, env, "today", "--output", "json")
	var summary schema.SummaryResult
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Tracks, 3)
	assert.InDelta(t, 30.0, summary.Tracks[0].Stress, 1e-9)

	out = runPMC(t, env, "store", "status")
	assert.Contains(t, out, "sqlite")

	runPMC(t, env, "export", "--output-file", filepath.Join(dir, "training"))
	assert.FileExists(t, filepath.Join(dir, "training.series.parquet"))
	assert.FileExists(t, filepath.Join(dir, "training.observations.parquet"))
	assert.FileExists(t, filepath.Join(dir, "training.seasons.parquet"))

	runPMC(t, env, "store", "clear")
	assert.NoFileExists(t, filepath.Join(dir, "pmc.db"))
}
