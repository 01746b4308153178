package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/commitscore/internal/contract"
	"github.com/huangsam/commitscore/schema"
)

// ErrHookExists means a hook script is already installed at the target path.
var ErrHookExists = errors.New("hook already exists")

// hookScripts holds the script written for each hook type.
var hookScripts = map[schema.HookType]string{
	schema.PreCommitHook: `#!/bin/sh
# Installed by commitscore. Scores the staged files before each commit.
exec commitscore run "$@"
`,
	schema.PostCommitHook: `#!/bin/sh
# Installed by commitscore. Scores the files of the commit just made.
# A root commit has no parent and is compared with the empty tree.
base=$(git rev-parse --verify --quiet HEAD~1) || base=` + schema.EmptyTreeHash + `
exec commitscore run --base-ref "$base" --target-ref HEAD "$@"
`,
}

// InstallHook writes the commitscore hook script into the hooks directory of
// the repository at repoPath and returns its path. An existing hook is only
// replaced when force is set.
func InstallHook(ctx context.Context, client contract.GitClient, repoPath string, hook schema.HookType, force bool) (string, error) {
	script, ok := hookScripts[hook]
	if !ok {
		return "", fmt.Errorf("invalid hook '%s'. must be pre-commit, post-commit", hook)
	}

	// Worktrees and core.hooksPath move the hooks directory, so ask git for it
	out, err := client.Run(ctx, repoPath, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("cannot locate hooks directory: %w", err)
	}
	hooksDir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(hooksDir) {
		hooksDir = filepath.Join(repoPath, hooksDir)
	}
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", hooksDir, err)
	}

	hookPath := filepath.Join(hooksDir, string(hook))
	if _, err := os.Stat(hookPath); err == nil && !force {
		return hookPath, fmt.Errorf("%w at %s. Re-run with --force to replace it", ErrHookExists, hookPath)
	}
	if err := os.WriteFile(hookPath, []byte(script), 0o755); err != nil {
		return hookPath, fmt.Errorf("failed to write %s: %w", hookPath, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(hookPath, 0o755); err != nil {
		return hookPath, fmt.Errorf("failed to make %s executable: %w", hookPath, err)
	}
	return hookPath, nil
}
