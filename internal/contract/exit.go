package contract

import (
	"errors"
	"fmt"
)

// Process exit codes of the hook.
const (
	ExitPassed      = 0 // no applicable files, or everything passed
	ExitFailed      = 1 // commit or an individual file failed
	ExitUnavailable = 2 // linter executable could not be launched
)

// ExitCoder is an error that knows its process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

var _ ExitCoder = &ExitError{} // Compile-time check

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// NewExitError creates an ExitError with a message.
func NewExitError(code int, msg string) error {
	return &ExitError{code: normalizeExitCode(code), msg: msg}
}

// WrapExitError creates an ExitError that wraps an underlying cause.
func WrapExitError(code int, msg string, cause error) error {
	if cause == nil {
		return NewExitError(code, msg)
	}
	return &ExitError{code: normalizeExitCode(code), msg: msg, cause: cause}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitPassed
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if errors.Is(err, ErrLinterUnavailable) {
		return ExitUnavailable
	}
	return ExitFailed
}

// Exit code 0 means success; errors should never be 0.
func normalizeExitCode(code int) int {
	if code <= 0 {
		return ExitFailed
	}
	return code
}
