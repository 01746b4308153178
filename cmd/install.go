package cmd

import (
	"github.com/huangsam/commitscore/core"
	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
	"github.com/spf13/cobra"
)

// installCmd writes the hook script into a repository.
var installCmd = &cobra.Command{
	Use:   "install [repo-path]",
	Short: "Install commitscore as a git hook",
	Long: `Write a hook script that runs commitscore on every commit.

The pre-commit hook scores the staged changes and can reject the commit.
The post-commit hook scores the commit just made, which only updates the
repository score and the history.

Examples:
  # Install the pre-commit hook in the current repository
  commitscore install

  # Replace an existing post-commit hook
  commitscore install --hook post-commit --force`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repoPath := "."
		if len(args) == 1 {
			repoPath = args[0]
		}
		hook, _ := cmd.Flags().GetString("hook")
		force, _ := cmd.Flags().GetBool("force")
		path, err := core.InstallHook(rootCtx, gitClient, repoPath, schema.HookType(hook), force)
		if err != nil {
			contract.LogFatal("Cannot install hook", err)
		}
		cmd.Printf("Installed %s hook at %s\n", hook, path)
	},
}
