// Package parquet provides data structures and functions for exporting pmc
// series and stored observations to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pmcharts/pmc/schema"
)

// SeriesRow is one day of one track of a computed series.
type SeriesRow struct {
	// Date is the civil day of the point (stored as TIMESTAMP at UTC midnight)
	Date time.Time `parquet:"date,snappy"`

	// Track is actual, planned or expected
	Track string `parquet:"track,snappy,dict"`

	// Stress is the daily stress sum
	Stress float64 `parquet:"stress,snappy"`

	// LTS is the long term stress (fitness)
	LTS float64 `parquet:"lts,snappy"`

	// STS is the short term stress (fatigue)
	STS float64 `parquet:"sts,snappy"`

	// SB is the stress balance (form)
	SB float64 `parquet:"sb,snappy"`

	// RR is the LTS ramp rate over the short term window
	RR float64 `parquet:"rr,snappy"`
}

// ObservationRow is a stored observation.
type ObservationRow struct {
	ID       string    `parquet:"id,snappy"`
	Date     time.Time `parquet:"date,snappy"`
	Planned  bool      `parquet:"planned,snappy"`
	Sport    string    `parquet:"sport,snappy,dict"`
	Title    string    `parquet:"title,snappy"`
	Duration float64   `parquet:"duration,snappy"`

	// Metrics is the JSON-encoded metric map (nullable)
	Metrics *string `parquet:"metrics,optional,snappy"`
}

// SeasonRow is a stored season.
type SeasonRow struct {
	ID    string     `parquet:"id,snappy"`
	Name  string     `parquet:"name,snappy"`
	Start time.Time  `parquet:"start,snappy"`
	End   *time.Time `parquet:"end,optional,snappy"`
	Seed  *float64   `parquet:"seed,optional,snappy"`
}

// writeParquet writes rows to a new Parquet file whose schema is inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteSeriesParquet writes series rows to a Parquet file.
func WriteSeriesParquet(data []SeriesRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteObservationsParquet writes observation rows to a Parquet file.
func WriteObservationsParquet(data []ObservationRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSeasonsParquet writes season rows to a Parquet file.
func WriteSeasonsParquet(data []SeasonRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertSeriesPoints converts series points for Parquet export.
func ConvertSeriesPoints(points []schema.SeriesPoint) []SeriesRow {
	result := make([]SeriesRow, len(points))
	for i, p := range points {
		result[i] = SeriesRow{
			Date:   p.Date,
			Track:  string(p.Track),
			Stress: p.Stress,
			LTS:    p.LTS,
			STS:    p.STS,
			SB:     p.SB,
			RR:     p.RR,
		}
	}
	return result
}

// ConvertObservations converts stored observations for Parquet export.
func ConvertObservations(items []schema.Observation) ([]ObservationRow, error) {
	result := make([]ObservationRow, len(items))
	for i, obs := range items {
		row := ObservationRow{
			ID:       obs.ID,
			Date:     obs.Date,
			Planned:  obs.Planned,
			Sport:    obs.Sport,
			Title:    obs.Title,
			Duration: obs.Duration,
		}
		if len(obs.Metrics) > 0 {
			encoded, err := json.Marshal(obs.Metrics)
			if err != nil {
				return nil, fmt.Errorf("failed to encode metrics for %s: %w", obs.ID, err)
			}
			metrics := string(encoded)
			row.Metrics = &metrics
		}
		result[i] = row
	}
	return result, nil
}

// ConvertSeasons converts stored seasons for Parquet export.
func ConvertSeasons(items []schema.Season) []SeasonRow {
	result := make([]SeasonRow, len(items))
	for i, s := range items {
		result[i] = SeasonRow{
			ID:    s.ID,
			Name:  s.Name,
			Start: s.Start,
			End:   s.End,
			Seed:  s.Seed,
		}
	}
	return result
}
