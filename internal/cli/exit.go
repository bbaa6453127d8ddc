package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/fintrack/internal/api"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitAuth    = 3
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code   int
	Reason string
	Err    error
}

// Error implements error.
func (e *ExitError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("exit status %d", e.Code)
	}
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code. nil is ExitOK, an *ExitError
// anywhere in the chain supplies its own code and anything else is
// ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errLoginRequired is the message shown when the backend rejects the token.
const errLoginRequired = "authentication required, run `fintrack login`"

// classify turns an expired session into an ExitAuth error. Other errors are
// returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if api.IsUnauthorized(err) {
		return &ExitError{Code: ExitAuth, Reason: errLoginRequired, Err: err}
	}
	return err
}
