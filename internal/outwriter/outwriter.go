// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints daily series points using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(result, cfg, duration)
}

// WriteSummary prints the per-track values of one day using the configured output format.
func (ow *OutWriter) WriteSummary(result schema.SummaryResult, cfg *contract.Config) error {
	return PrintSummaryResults(result, cfg)
}

// WriteObservations prints stored observations using the configured output format.
func (ow *OutWriter) WriteObservations(items []schema.Observation, cfg *contract.Config) error {
	return PrintObservations(items, cfg)
}

// WriteSeasons prints stored seasons using the configured output format.
func (ow *OutWriter) WriteSeasons(items []schema.Season, cfg *contract.Config) error {
	return PrintSeasons(items, cfg)
}

// WriteMetrics prints the metric catalog using the configured output format.
func (ow *OutWriter) WriteMetrics(defs []metric.Definition, cfg *contract.Config) error {
	return PrintMetricsDefinitions(defs, cfg)
}

// WriteStatus prints the store status.
func (ow *OutWriter) WriteStatus(w io.Writer, status schema.StoreStatus) {
	PrintStoreStatus(w, status)
}
