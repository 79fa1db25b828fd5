package cmd

import (
	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/spf13/cobra"
)

// seriesCmd prints the daily series over the configured window.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show daily stress, LTS, STS, SB and RR over a date window",
	Long: `Compute the Performance Manager series from every stored observation and print
the days between --start and --end for the selected tracks.

Tracks:
  actual   - completed observations only
  planned  - planned observations only
  expected - completed up to today, planned after today

Examples:
  # Last 90 days and the next two weeks
  pmc series

  # Planned track of the coming month as CSV
  pmc series --track planned --start today --end "1 month ahead" --output csv

  # Use heart rate load instead of power based TSS
  pmc series --metric trimp`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Cannot compute series", err)
		}
	},
}

// todayCmd prints the per-track values of a single day.
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show fitness, fatigue and form for today",
	Long: `Print LTS, STS, SB and RR of every track on the configured today, with labels
for fitness, form and ramp rate.

Examples:
  # Where do I stand today?
  pmc today

  # Where will I stand on race day?
  pmc today --today 2025-06-14`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Cannot compute summary", err)
		}
	},
}
