package contract

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfShellNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not found in PATH: %v", err)
	}
}

func TestLocalLinterRunner_Run(t *testing.T) {
	skipIfShellNotAvailable(t)
	ctx := context.Background()

	t.Run("stdout and path argument", func(t *testing.T) {
		runner := NewLocalLinterRunner(0)
		out, err := runner.Run(ctx, "sh", []string{"-c", `echo "linting $1"`, "sh"}, "app.py")
		require.NoError(t, err)
		assert.Equal(t, "linting app.py\n", string(out))
	})

	t.Run("non-zero exit is not fatal", func(t *testing.T) {
		runner := NewLocalLinterRunner(0)
		out, err := runner.Run(ctx, "sh", []string{"-c", "echo 'Your code has been rated at 5.00/10'; exit 28", "sh"}, "app.py")
		require.NoError(t, err)
		assert.Contains(t, string(out), "rated at 5.00/10")
	})

	t.Run("command with its own arguments", func(t *testing.T) {
		runner := NewLocalLinterRunner(0)
		out, err := runner.Run(ctx, "sh -c", []string{`echo "$0"`}, "mod.go")
		require.NoError(t, err)
		assert.Equal(t, "mod.go\n", string(out))
	})

	t.Run("missing executable", func(t *testing.T) {
		runner := NewLocalLinterRunner(0)
		_, err := runner.Run(ctx, "definitely-not-a-linter-12345", nil, "app.py")
		assert.ErrorIs(t, err, ErrLinterUnavailable)
	})

	t.Run("empty command", func(t *testing.T) {
		runner := NewLocalLinterRunner(0)
		_, err := runner.Run(ctx, "  ", nil, "app.py")
		assert.ErrorIs(t, err, ErrLinterUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		runner := NewLocalLinterRunner(50 * time.Millisecond)
		_, err := runner.Run(ctx, "sh", []string{"-c", "exec sleep 5", "sh"}, "app.py")
		assert.ErrorIs(t, err, ErrLinterUnavailable)
	})
}
