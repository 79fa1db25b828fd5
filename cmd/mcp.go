package cmd

import (
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/internal/mcp"
	"github.com/pmcharts/pmc/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the PMC MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query and extend the series.

With --metrics-addr, recompute counters and timings are served for Prometheus.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr or the log file, stdout carries the protocol
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		var opts []pmc.Option
		if addr := viper.GetString("metrics-addr"); addr != "" {
			reg := telemetry.SetupPrometheus()
			opts = append(opts, pmc.WithObserver(telemetry.NewManager(reg).Observe))
			go func() {
				if err := telemetry.Serve(rootCtx, addr, reg); err != nil {
					contract.LogWarn("Metrics server stopped", err)
				}
			}()
		}
		return mcp.StartMCPServer(rootCtx, cfg, datastore.Manager, opts...)
	},
}
