// Package cmd defines the command-line interface for pmc.
package cmd

import (
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(observationCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the record subcommands to their parent commands
	observationCmd.AddCommand(observationAddCmd)
	observationCmd.AddCommand(observationDeleteCmd)
	observationCmd.AddCommand(observationListCmd)
	seasonCmd.AddCommand(seasonAddCmd)
	seasonCmd.AddCommand(seasonDeleteCmd)
	seasonCmd.AddCommand(seasonListCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("lts-days", pmc.DefaultLTSDays, "Long term stress window in days (CTL)")
	rootCmd.PersistentFlags().Int("sts-days", pmc.DefaultSTSDays, "Short term stress window in days (ATL)")
	rootCmd.PersistentFlags().String("sb-today", "no", "Include today's stress in today's balance (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("seed-expected", "no", "Bank season seeds into the expected track (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().StringP("metric", "m", contract.DefaultMetric, "Metric name or expression over m, planned, sport, duration")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Boolean expression selecting the observations to accumulate")
	rootCmd.PersistentFlags().String("track", "all", "Comma-separated tracks: actual, planned, expected or all")
	rootCmd.PersistentFlags().String("start", "", "Start date as YYYY-MM-DD or time ago (default 90 days before today)")
	rootCmd.PersistentFlags().String("end", "", "End date as YYYY-MM-DD or time ahead (default 14 days after today)")
	rootCmd.PersistentFlags().String("today", "", "Date treated as today (default is the current date)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string (file path for sqlite, DSN for mysql/postgresql)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Record flags are read from the command itself
	observationAddCmd.Flags().Bool("planned", false, "Mark the observation as planned")
	observationAddCmd.Flags().String("sport", "", "Sport of the observation")
	observationAddCmd.Flags().String("title", "", "Short title")
	observationAddCmd.Flags().Duration("duration", 0, "Moving time (e.g., 1h30m)")
	observationAddCmd.Flags().StringToString("set", nil, "Metric values (e.g., --set tss=85,trimp=120)")
	seasonAddCmd.Flags().Float64("seed", 0, "Long and short term stress banked at the season start")

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}

	// Bind all flags of mcpCmd to Viper
	mcpCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090)")
	if err := viper.BindPFlags(mcpCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mcp flags", err)
	}
}
