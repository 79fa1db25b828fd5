package cmd

import (
	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd lists the named metrics and the series fields.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the named stress metrics and what each series field means",
	Long: `Show the training load metrics that --metric accepts by name, and how to write
an expression instead.

Examples:
  pmc metrics
  pmc series --metric 'has(m.tss) ? m.tss : duration / 36.0'`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return processConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot list metrics", err)
		}
	},
}
