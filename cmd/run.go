package cmd

import (
	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd scores one commit. It is what the installed hook executes.
var runCmd = &cobra.Command{
	Use:   "run [repo-path]",
	Short: "Score the files of one commit and update the repository score",
	Long: `Lint every changed Python and Go file, average the scores and compare
the result to the configured limit.

Without --base-ref the staged changes are scored, which is what a pre-commit
hook needs. With --base-ref and --target-ref the files changed between the two
revisions are scored, which is what a post-commit hook needs.

Exit codes:
  0 - commit passed
  1 - commit rejected by the policy
  2 - a linter could not be launched

Examples:
  # Score staged changes in the current repository
  commitscore run

  # Score the commit just made
  commitscore run --base-ref HEAD~1 --target-ref HEAD

  # Require a 9.0 and only fail on regressions
  commitscore run --limit 9 --policy regression`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := core.ExecuteRun(rootCtx, cfg, collaborators()); err != nil {
			contract.LogFatal("Cannot accept commit", err)
		}
	},
}
