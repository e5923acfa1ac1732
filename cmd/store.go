package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iostore"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup,
// which avoids credential validation for simple persistence operations.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as the SQLite default
	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.StoreBackend(strings.ToLower(backendStr))
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config
	if err := iostore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as the SQLite default
	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.StoreBackend(strings.ToLower(backendStr))
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for the migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on persistence management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids credential
// validation and time-window processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage historical run tracking and the document corpus",
	Long: `Manage the persistence layer that backs trend tracking, exports and search.

When enabled, Devpulse records every analysis run, storing:
- Run metadata (timestamps, window bounds, configuration, duration)
- Per-engineer scores (all four components, total, percentile, counters)
- The document corpus (PR bodies, commit messages, ticket text) for search

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking and document statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  devpulse store status

  # Export for analysis in pandas/DuckDB
  devpulse store export --output-file devpulse-data.parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about the persistence layer.

Displays:
- Backend type and connection status
- Total number of analysis runs and score rows stored
- Last analysis run timestamp
- Document corpus size by source, kind and author
- Database table sizes

Use this to:
- Verify run tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health
- Estimate storage requirements

Examples:
  # Check store status
  devpulse store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.CollectStatus(iostore.Manager)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		writer := outwriter.NewOutWriter()
		if err := writer.WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write store status", err)
		}
	},
}

// storeClearCmd clears the stored data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs, scores and documents",
	Long: `Delete all stored analysis runs, engineer scores and indexed documents.

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting trend tracking
- Database storage is full
- Starting fresh analysis history
- Testing persistence features

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the devpulse tables

Examples:
  # Export before clearing
  devpulse store export --output-file backup.parquet
  devpulse store clear

  # Clear a MySQL-backed store
  DEVPULSE_STORE_BACKEND=mysql DEVPULSE_STORE_DB_CONNECT="..." devpulse store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStores(cfg.StoreBackend, contract.GetStoreDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store data", err)
		}
		fmt.Println("Store data cleared successfully.")
	},
}

// storeExportCmd exports stored data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Exports two datasets:
- Analysis runs - metadata about each analysis execution
- Engineer scores - component scores, totals and counters per run

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Use cases:
- Score trends across sprints and quarters
- Custom dashboards and visualizations
- Executive reporting and KPIs

Examples:
  # Export all data
  devpulse store export --output-file devpulse-data.parquet

  # Use with DuckDB for analysis
  devpulse store export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.engineer_scores.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the persistence layer.

Migrations allow:
- Upgrading to new schema versions when Devpulse is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed
- Testing new features on specific schema versions

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  devpulse store migrate

  # Migrate to specific version
  devpulse store migrate --target-version 1

  # Rollback to initial state
  devpulse store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateStores(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
