package cmd

import (
	"errors"

	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd scores the recent commits of a repository.
var historyCmd = &cobra.Command{
	Use:   "history [repo-path]",
	Short: "Score the most recent commits against their parents",
	Long: `Walk the last N commits and score every Python and Go file each one
changed, once at the commit and once at its parent. The difference is the
impact of the commit on that file.

The repository score is not touched. Use --submit to push the records to the
remote scoring service.

Examples:
  # Score the last 10 commits
  commitscore history

  # Score the last 50 commits and export them as CSV
  commitscore history --commits 50 --output csv --output-file history.csv

  # Push the records to the scoring service
  commitscore history --remote-url https://scores.example.com/api/records --submit`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		submit, _ := cmd.Flags().GetBool("submit")
		if submit && cfg.RemoteURL == "" {
			contract.LogFatal("Cannot submit history", errors.New("--submit requires --remote-url"))
		}
		if err := core.ExecuteHistory(rootCtx, cfg, collaborators(), submit); err != nil {
			contract.LogFatal("Cannot score history", err)
		}
	},
}
