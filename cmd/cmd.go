// Package cmd defines the command-line interface for commitscore.
package cmd

import (
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the score subcommands to the parent score command
	scoreCmd.AddCommand(scoreShowCmd)
	scoreCmd.AddCommand(scoreResetCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("limit", contract.DefaultLimit, "Minimum score out of 10 a commit must reach")
	rootCmd.PersistentFlags().String("policy", string(schema.LimitPolicy), "Pass/fail policy: limit or regression")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("pylint", contract.DefaultPylint, "Pylint executable")
	rootCmd.PersistentFlags().String("pylint-params", "", "Extra arguments passed to pylint")
	rootCmd.PersistentFlags().String("pylintrc", contract.DefaultPylintrc, "Pylintrc whose [pre-commit-hook] section overrides these settings")
	rootCmd.PersistentFlags().String("golint", contract.DefaultGolint, "Golint executable")
	rootCmd.PersistentFlags().Bool("suppress-report", false, "Re-run failing files without the extended pylint report")
	rootCmd.PersistentFlags().String("linter-timeout", "0", "Maximum duration of one linter run (0 = no limit)")
	rootCmd.PersistentFlags().String("ledger-file", "", "Repository score file (default .git/commitscore.score)")
	rootCmd.PersistentFlags().Float64("ledger-default", 0, "Repository score used before the first commit is scored")
	rootCmd.PersistentFlags().String("audit-file", "", "Audit log file (default .git/commitscore.log)")
	rootCmd.PersistentFlags().String("remote-url", "", "Scoring-history service that receives score records")
	rootCmd.PersistentFlags().String("remote-timeout", contract.DefaultRemoteTimeout.String(), "Timeout of one submission to the remote service")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "History store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Lint cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the lint cache (tables do not clash with the history store)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("commits", contract.DefaultCommits, "Number of recent commits to walk in history mode")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().String("base-ref", "", "Base Git reference of a post-commit range (empty = staged changes)")
	runCmd.Flags().String("target-ref", "", "Target Git reference of a post-commit range (default HEAD)")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run flags", err)
	}

	// Local flags that are not part of the shared configuration
	historyCmd.Flags().Bool("submit", false, "Push the history records to the remote service")
	scoreResetCmd.Flags().Float64("value", 0, "Score to reset to (default ledger-default)")
	storeClearCmd.Flags().Bool("cache", false, "Clear the lint cache instead of the run history")
	installCmd.Flags().String("hook", string(schema.PreCommitHook), "Hook to install: pre-commit or post-commit")
	installCmd.Flags().Bool("force", false, "Replace an existing hook")

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
