package cmd

import (
	"fmt"

	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendConfig reads and validates the store settings without the full shared setup.
func storeBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
func storeSetup() error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	if err := datastore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup is like storeSetup but does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	backend, connStr, err := storeBackendConfig()
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeCmd focused on store management.
//
// Note: store subcommands use minimal initialization instead of the full
// sharedSetup, so they work even when the engine settings are invalid.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the observation and season store",
	Long: `Manage the database holding observations and seasons.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored observations and seasons
  migrate - Apply or roll back schema migrations`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state, number of observations and seasons, and
the dates of the first and last observation.

Examples:
  pmc store status
  PMC_STORE_BACKEND=postgresql PMC_STORE_DB_CONNECT="..." pmc store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored observations and seasons",
	Long: `Delete all stored data from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the observation and season tables`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeMigrateSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := datastore.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd applies schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back store schema migrations",
	Long: `Run the embedded schema migrations against the configured backend.

Examples:
  # Migrate to the latest version
  pmc store migrate

  # Roll back everything
  pmc store migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeMigrateSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := datastore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
	},
}

// exportCmd writes the series and the stored records to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the series, observations and seasons to Parquet files",
	Long: `Write three Parquet files next to --output-file:

  <output-file>.series.parquet        every day of every track
  <output-file>.observations.parquet  the stored observations
  <output-file>.seasons.parquet       the stored seasons

Examples:
  pmc export --output-file training`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Failed to export", err)
		}
	},
}
