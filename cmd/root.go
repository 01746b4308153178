package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/iocache"
	"github.com/huangsam/commitscore/internal/ledger"
	"github.com/huangsam/commitscore/internal/remote"
	"github.com/huangsam/commitscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// gitClient is shared by every command that talks to git.
var gitClient contract.GitClient = contract.NewLocalGitClient()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "commitscore",
	Short: "Score the lint quality of every commit from a git hook.",
	Long: `Commitscore lints the files a commit changes, compares the score to a limit
and keeps a running score for the whole repository.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".commitscore") // Name of config file (without extension)
		viper.SetConfigType("yaml")         // We'll use YAML format
		viper.AddConfigPath(".")            // Look in the current directory
		viper.AddConfigPath("$HOME")        // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("COMMITSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultLimit)
	viper.SetDefault("policy", schema.LimitPolicy)
	viper.SetDefault("pylint", contract.DefaultPylint)
	viper.SetDefault("golint", contract.DefaultGolint)
	viper.SetDefault("pylintrc", contract.DefaultPylintrc)
	viper.SetDefault("remote-timeout", contract.DefaultRemoteTimeout.String())
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("commits", contract.DefaultCommits)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
}

// loadConfigFile reads the config file if present. A missing file is fine.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	contract.SetupLogging(input.Verbose)

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RepoPathStr = args[0]
	} else {
		input.RepoPathStr = "."
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(ctx, cfg, gitClient, input); err != nil {
		return err
	}

	// 5. Initialize the history store and lint cache with validated config
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect, cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// collaborators wires the production implementations for the validated config.
func collaborators() core.Collaborators {
	return core.Collaborators{
		Git:       gitClient,
		Linter:    contract.NewLocalLinterRunner(cfg.LinterTimeout),
		Ledger:    ledger.NewFile(cfg.LedgerFile, cfg.LedgerDefault),
		Submitter: remote.NewSubmitter(cfg.RemoteURL, cfg.RemoteTimeout),
		Store:     iocache.Manager,
		Out:       os.Stdout,
	}
}

// Execute runs the root command.
func Execute() error {
	defer iocache.CloseStores()
	return rootCmd.Execute()
}
