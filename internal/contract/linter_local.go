package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a killed linter may hold its output pipes open.
const waitDelay = time.Second

// LocalLinterRunner implements the LinterRunner interface by executing
// a linter installed on the machine.
type LocalLinterRunner struct {
	Timeout time.Duration // 0 = no timeout
}

var _ LinterRunner = &LocalLinterRunner{} // Compile-time check

// NewLocalLinterRunner creates a runner that kills the linter after timeout.
func NewLocalLinterRunner(timeout time.Duration) *LocalLinterRunner {
	return &LocalLinterRunner{Timeout: timeout}
}

// Run implements the LinterRunner interface.
// The command may carry leading arguments of its own, e.g. "python3 -m pylint".
func (r *LocalLinterRunner) Run(ctx context.Context, command string, args []string, path string) ([]byte, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty linter command", ErrLinterUnavailable)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	fullArgs := make([]string, 0, len(parts)+len(args))
	fullArgs = append(fullArgs, parts[1:]...)
	fullArgs = append(fullArgs, args...)
	fullArgs = append(fullArgs, path)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, parts[0], fullArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %s on %s did not finish: %v", ErrLinterUnavailable, parts[0], path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 {
			return nil, fmt.Errorf("%w: %s was terminated: %v", ErrLinterUnavailable, parts[0], err)
		}
		// pylint encodes message categories in its exit status
		LogDebug(fmt.Sprintf("%s exited with status %d on %s", parts[0], exitErr.ExitCode(), path), strings.TrimSpace(stderr.String()))
		return stdout.Bytes(), nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %v. Ensure it is installed and available on your PATH", ErrLinterUnavailable, parts[0], err)
	}
	return stdout.Bytes(), nil
}
