package outwriter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSeries() schema.SeriesResult {
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return schema.SeriesResult{
		Metric:  "tss",
		LTSDays: 42,
		STSDays: 7,
		Start:   d,
		End:     d.AddDate(0, 0, 1),
		Points: []schema.SeriesPoint{
			{Date: d, Track: schema.ActualTrack, Stress: 100, LTS: 2.35, STS: 13.31, SB: 0, RR: 2.35},
			{Date: d.AddDate(0, 0, 1), Track: schema.ActualTrack, LTS: 2.3, STS: 11.53, SB: -10.96, RR: 2.3},
		},
	}
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 0", 0, 3.6, "4"},
		{"negative value", 1, -10.96, "-11.0"},
		{"negative zero", 1, -0.04, "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, createFormatter(tt.precision)(tt.value))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "1:00:00", formatDuration(3600))
	assert.Equal(t, "0:45:30", formatDuration(2730))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "unchanged", truncate("unchanged", 0))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, sampleSeries()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "tss", decoded["metric"])
	assert.Len(t, decoded["points"], 2)
	assert.Contains(t, buf.String(), "\n  \"metric\"")
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote test")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.json"), func(io.Writer) error { return nil }, "Wrote test")
	assert.Error(t, err)
}

func TestWriteSeriesTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Precision: 1}
	require.NoError(t, writeSeriesTable(&buf, sampleSeries(), cfg, createFormatter(cfg.Precision)))

	out := buf.String()
	assert.Contains(t, out, "2024-05-01")
	assert.Contains(t, out, "2024-05-02")
	assert.Contains(t, out, "13.3")
	assert.Contains(t, out, "-11.0")
	assert.Contains(t, out, contract.OptimalValue)
}

func TestWriteCSVResultsForSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForSeries(&buf, sampleSeries(), createFormatter(2)))

	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "track", "stress", "lts", "sts", "sb", "rr", "form", "ramp"}, records[0])
	assert.Equal(t, []string{"2024-05-01", "actual", "100.00", "2.35", "13.31", "0.00", "2.35", contract.OptimalValue, contract.NeutralValue}, records[1])
	assert.Equal(t, "-10.96", records[2][5])
}

func TestPrintSeriesResultsToFiles(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "series.json")
	require.NoError(t, PrintSeriesResults(sampleSeries(), &contract.Config{Output: schema.JSONOut, OutputFile: jsonPath}, time.Second))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded schema.SeriesResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Points, 2)

	parquetPath := filepath.Join(dir, "series.parquet")
	require.NoError(t, PrintSeriesResults(sampleSeries(), &contract.Config{Output: schema.ParquetOut, OutputFile: parquetPath}, time.Second))
	info, err := os.Stat(parquetPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	err = PrintSeriesResults(sampleSeries(), &contract.Config{Output: schema.ParquetOut}, time.Second)
	assert.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	result := schema.SummaryResult{
		Date:    time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Metric:  "tss",
		LTSDays: 42,
		STSDays: 7,
		Tracks: []schema.TrackSummary{
			{Track: schema.ActualTrack, LTS: 80, STS: 130, SB: -50, RR: 9},
			{Track: schema.PlannedTrack, LTS: 10, STS: 5, SB: 5, RR: 1},
		},
	}

	var buf bytes.Buffer
	cfg := &contract.Config{Precision: 1}
	require.NoError(t, writeSummaryTable(&buf, result, cfg, createFormatter(1)))
	out := buf.String()
	assert.Contains(t, out, "2024-05-02")
	assert.Contains(t, out, contract.InjuryRiskValue)
	assert.Contains(t, out, contract.RampRiskValue)
	assert.Contains(t, out, contract.HighFitnessValue)

	buf.Reset()
	require.NoError(t, writeCSVResultsForSummary(&buf, result, createFormatter(1)))
	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, "planned", records[2][1])
	assert.Equal(t, contract.OptimalValue, records[2][8])

	assert.Error(t, PrintSummaryResults(result, &contract.Config{Output: schema.ParquetOut}))
}

func TestWriteCSVObservationsRoundTrip(t *testing.T) {
	items := []schema.Observation{
		{ID: "a", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sport: "Bike", Title: "Tempo, hard", Duration: 3600, Metrics: map[string]float64{"tss": 80.5}},
		{ID: "b", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Planned: true, Metrics: map[string]float64{"trimp": 120}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSVObservations(&buf, items))
	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "date", "planned", "sport", "title", "duration", "trimp", "tss"}, records[0])
	assert.Equal(t, "", records[1][6])
	assert.Equal(t, "80.5", records[1][7])

	store := datastore.NewMemoryStore()
	n, err := datastore.ImportCSV(context.Background(), store, strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Tempo, hard", got.Title)
	assert.Equal(t, map[string]float64{"tss": 80.5}, got.Metrics)
	planned, err := store.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, planned.Planned)
}

func TestWriteObservationTable(t *testing.T) {
	items := []schema.Observation{
		{ID: "0123456789abcdef", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sport: "Run", Duration: 1800, Metrics: map[string]float64{"rss": 40, "hrss": 35}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeObservationTable(&buf, items, &contract.Config{Precision: 0, Width: 120}))
	out := buf.String()
	assert.Contains(t, out, "01234...")
	assert.Contains(t, out, "0:30:00")
	assert.Contains(t, out, "hrss=35 rss=40")
	assert.Contains(t, out, "1 observations")
}

func TestSeasonOutput(t *testing.T) {
	seed := 0.0
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	items := []schema.Season{
		{ID: "s1", Name: "Base", Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: &end, Seed: &seed},
		{ID: "s2", Name: "Race", Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSeasonTable(&buf, items, &contract.Config{Precision: 1}))
	assert.Contains(t, buf.String(), "open")
	assert.Contains(t, buf.String(), "0.0")

	buf.Reset()
	require.NoError(t, writeCSVSeasons(&buf, items))
	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"s1", "Base", "2024-01-01", "2024-06-30", "0"}, records[1])
	assert.Equal(t, []string{"s2", "Race", "2024-07-01", "", ""}, records[2])
}

func TestPrintStoreStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStoreStatus(&buf, schema.StoreStatus{Backend: "none", Connected: false})
	assert.Equal(t, "Store Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	NewOutWriter().WriteStatus(&buf, schema.StoreStatus{
		Backend:             "sqlite",
		Connected:           true,
		TotalObservations:   3,
		PlannedObservations: 1,
		TotalSeasons:        2,
		FirstObservation:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastObservation:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		TableSizeBytes:      4096,
	})
	assert.Contains(t, buf.String(), "Total Observations: 3 (1 planned)")
	assert.Contains(t, buf.String(), "Last Observation: 2024-02-01")
}

func TestMetricsOutput(t *testing.T) {
	model := buildMetricsRenderModel(metric.Catalog)
	assert.Len(t, model.Fields, len(schema.AllFields))

	var buf bytes.Buffer
	require.NoError(t, printMetricsText(&buf, model))
	assert.Contains(t, buf.String(), "coggan_tss")
	assert.Contains(t, buf.String(), "Training Stress Balance")

	buf.Reset()
	require.NoError(t, writeCSVMetrics(&buf, model))
	records := readCSV(t, buf.String())
	assert.Len(t, records, len(metric.Catalog)+1)
}
