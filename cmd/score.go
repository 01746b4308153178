package cmd

import (
	"fmt"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/internal/ledger"
	"github.com/spf13/cobra"
)

// scoreCmd groups the repository score commands.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Inspect or reset the running repository score",
	Long: `The repository score is a running value that every accepted commit pulls
toward its own score. It lives in a small file inside the git directory.

Subcommands:
  show  - Print the current repository score
  reset - Overwrite the repository score`,
}

// scoreShowCmd prints the repository score.
var scoreShowCmd = &cobra.Command{
	Use:     "show [repo-path]",
	Short:   "Print the current repository score",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		f := ledger.NewFile(cfg.LedgerFile, cfg.LedgerDefault)
		score, err := f.Load()
		if err != nil {
			contract.LogFatal("Cannot read repository score", err)
		}
		cmd.Printf("Repository score: %.2f\n", score.Value)
		cmd.Printf("Ledger file: %s\n", f.Path())
	},
}

// scoreResetCmd overwrites the repository score.
var scoreResetCmd = &cobra.Command{
	Use:   "reset [repo-path]",
	Short: "Overwrite the repository score",
	Long: `Overwrite the repository score with --value, or with ledger-default when
--value is not given.

Examples:
  # Start over from the configured default
  commitscore score reset

  # Set the score to 7.5
  commitscore score reset --value 7.5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		value := cfg.LedgerDefault
		if cmd.Flags().Changed("value") {
			value, _ = cmd.Flags().GetFloat64("value")
		}
		if err := contract.ValidateLimit(value); err != nil {
			contract.LogFatal("Cannot reset repository score", fmt.Errorf("invalid --value: %w", err))
		}
		f := ledger.NewFile(cfg.LedgerFile, cfg.LedgerDefault)
		if err := f.Reset(value); err != nil {
			contract.LogFatal("Cannot reset repository score", err)
		}
		cmd.Printf("Repository score reset to %.2f\n", value)
	},
}
