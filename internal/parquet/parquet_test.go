package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pmcharts/pmc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func samplePoints() []schema.SeriesPoint {
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []schema.SeriesPoint{
		{Date: d, Track: schema.ActualTrack, Stress: 100, LTS: 2.35, STS: 13.31, SB: 0, RR: 2.35},
		{Date: d.AddDate(0, 0, 1), Track: schema.ActualTrack, LTS: 2.3, STS: 11.53, SB: -10.96, RR: 2.3},
		{Date: d, Track: schema.PlannedTrack, Stress: 60, LTS: 1.41, STS: 7.99, RR: 1.41},
	}
}

func TestSchemaColumns(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{"series", parquet.SchemaOf(new(SeriesRow)), []string{"date", "track", "stress", "lts", "sts", "sb", "rr"}},
		{"observations", parquet.SchemaOf(new(ObservationRow)), []string{"id", "date", "planned", "sport", "title", "duration", "metrics"}},
		{"seasons", parquet.SchemaOf(new(SeasonRow)), []string{"id", "name", "start", "end", "seed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, colName := range tt.columns {
				_, ok := tt.schema.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteSeriesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "series.parquet")
	data := ConvertSeriesPoints(samplePoints())
	require.NoError(t, WriteSeriesParquet(data, outputPath))

	rows := readRows[SeriesRow](t, outputPath)
	require.Len(t, rows, len(data))
	for i := range data {
		assert.Equal(t, data[i].Track, rows[i].Track)
		assert.Equal(t, data[i].Stress, rows[i].Stress)
		assert.InDelta(t, data[i].SB, rows[i].SB, 1e-12)
		assert.WithinDuration(t, data[i].Date, rows[i].Date, time.Nanosecond)
	}
	assert.Equal(t, "planned", rows[2].Track)
}

func TestWriteObservationsParquet(t *testing.T) {
	items := []schema.Observation{
		{ID: "a", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Sport: "Bike", Duration: 3600, Metrics: map[string]float64{"coggan_tss": 80}},
		{ID: "b", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Planned: true},
	}
	data, err := ConvertObservations(items)
	require.NoError(t, err)
	require.NotNil(t, data[0].Metrics)
	assert.JSONEq(t, `{"coggan_tss":80}`, *data[0].Metrics)
	assert.Nil(t, data[1].Metrics)

	outputPath := filepath.Join(t.TempDir(), "observations.parquet")
	require.NoError(t, WriteObservationsParquet(data, outputPath))

	rows := readRows[ObservationRow](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	require.NotNil(t, rows[0].Metrics)
	assert.JSONEq(t, `{"coggan_tss":80}`, *rows[0].Metrics)
	assert.True(t, rows[1].Planned)
	assert.Nil(t, rows[1].Metrics)
}

func TestWriteSeasonsParquet(t *testing.T) {
	seed := 40.0
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	items := []schema.Season{
		{ID: "s1", Name: "Base", Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: &end, Seed: &seed},
		{ID: "s2", Name: "Open", Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	outputPath := filepath.Join(t.TempDir(), "seasons.parquet")
	require.NoError(t, WriteSeasonsParquet(ConvertSeasons(items), outputPath))

	rows := readRows[SeasonRow](t, outputPath)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Seed)
	assert.Equal(t, 40.0, *rows[0].Seed)
	require.NotNil(t, rows[0].End)
	assert.WithinDuration(t, end, *rows[0].End, time.Nanosecond)
	assert.Nil(t, rows[1].Seed)
	assert.Nil(t, rows[1].End)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSeriesParquet([]SeriesRow{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteSeriesParquet(ConvertSeriesPoints(samplePoints()), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}
