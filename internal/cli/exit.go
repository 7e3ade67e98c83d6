package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The operation failed (rejected input, server error, expired session)
	ExitCommandError = 2 // The command itself was wrong (unknown flag, bad format, startup failure)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// operationError turns a manager error into an ExitFailure carrying the
// message a user should see.
func operationError(err error) error {
	if err == nil {
		return nil
	}
	return WrapExitError(ExitFailure, domainerrors.UserMessage(err), err)
}

// printError writes err to w the way a user should see it, including the
// per-field messages of a validation failure.
func printError(w io.Writer, err error) {
	var exitErr *ExitError
	var domainErr *domainerrors.Error
	if !errors.As(err, &exitErr) || exitErr.Code != ExitFailure || !errors.As(err, &domainErr) {
		fmt.Fprintf(w, "Error: %s\n", err)
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", domainErr.Code, exitErr.Message)
	if fields, ok := domainErr.Details.(map[string]string); ok {
		for _, name := range slices.Sorted(maps.Keys(fields)) {
			fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
		}
	}
}
