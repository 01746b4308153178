package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/iocache"
	"github.com/huangsam/commitscore/internal/outwriter"
	"github.com/huangsam/commitscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	contract.SetupLogging(viper.GetBool("verbose"))

	historyBackend := schema.DatabaseBackend(viper.GetString("store-backend"))
	historyConnStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(historyBackend, historyConnStr); err != nil {
		return err
	}
	cacheBackend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	cacheConnStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(cacheBackend, cacheConnStr); err != nil {
		return err
	}

	cfg.StoreBackend = historyBackend
	cfg.StoreDBConnect = historyConnStr
	cfg.CacheBackend = cacheBackend
	cfg.CacheDBConnect = cacheConnStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeOpenWrapper loads store config and opens both stores.
func storeOpenWrapper(_ *cobra.Command, _ []string) error {
	if err := storeSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect, cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}
	return nil
}

// storeSetupWrapper loads store config without opening anything.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on history store and lint cache management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by scoring commands. This avoids Git repo validation
// and linter config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the run history store and the lint cache",
	Long: `Manage the databases commitscore keeps outside the repository.

The history store records every scored commit with its per-file scores.
The lint cache keeps linter output keyed by file content, so unchanged files
are not linted twice.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history and cache statistics
  clear   - Remove the run history (or the lint cache with --cache)
  export  - Export the run history to Parquet files
  migrate - Run history schema migrations`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history store and lint cache statistics",
	Long: `Show detailed information about the history store and the lint cache.

Displays:
- Backend type and connection status
- Number of recorded runs and how many passed
- Last and oldest run timestamps
- Row counts per history table
- Lint cache entries and size

Examples:
  # Check store status
  commitscore store status`,
	PreRunE: storeOpenWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		if history := iocache.Manager.GetHistoryStore(); history != nil {
			status, err := history.GetStatus()
			if err != nil {
				contract.LogFatal("Failed to get history store status", err)
			}
			if err := outwriter.PrintStoreStatus(w, status); err != nil {
				contract.LogFatal("Failed to print history store status", err)
			}
		}
		if cache := iocache.Manager.GetCacheStore(); cache != nil {
			status, err := cache.GetStatus()
			if err != nil {
				contract.LogFatal("Failed to get lint cache status", err)
			}
			fmt.Fprintln(w)
			outwriter.PrintCacheStatus(w, status)
		}
	},
}

// storeClearCmd clears the history or the lint cache.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs or cached lint results",
	Long: `Delete all recorded runs from the configured history backend. With --cache
the lint cache is cleared instead.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

Examples:
  # Clear the SQLite history (default)
  commitscore store clear

  # Clear the lint cache after upgrading pylint
  commitscore store clear --cache

  # Clear a PostgreSQL history (set connection string via env variable)
  COMMITSCORE_STORE_BACKEND=postgresql COMMITSCORE_STORE_DB_CONNECT="..." commitscore store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if clearCache, _ := cmd.Flags().GetBool("cache"); clearCache {
			if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
				contract.LogFatal("Failed to clear lint cache", err)
			}
			cmd.Println("Lint cache cleared successfully.")
			return
		}
		if err := iocache.ClearHistory(cfg.StoreBackend, contract.GetHistoryDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear history store", err)
		}
		cmd.Println("History store cleared successfully.")
	},
}

// storeExportCmd exports the history to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to Parquet files",
	Long: `Write every recorded run and file score to two Parquet files named after
--output-file:

  <output-file>.runs.parquet
  <output-file>.file_scores.parquet

Examples:
  # Export to scores.runs.parquet and scores.file_scores.parquet
  commitscore store export --output-file scores`,
	PreRunE: storeOpenWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager, cfg.OutputFile, cmd.OutOrStdout()); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// storeMigrateCmd runs history schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run history store schema migrations",
	Long: `Bring the history schema to a given version.

Without --target-version the schema is migrated to the latest version.
A target of 0 rolls every migration back.

Examples:
  # Migrate to the latest version
  commitscore store migrate

  # Roll back to version 1
  commitscore store migrate --target-version 1`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to migrate history store", err)
		}
	},
}
