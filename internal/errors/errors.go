// Package errors provides coded domain errors for the weddingwise client.
//
// Usage:
//
//	// In the manager - return typed errors
//	if len(cart) == 0 {
//	    return errors.NothingToConfirm("nothing to confirm")
//	}
//
//	// At the call site - check with errors.Is
//	if errors.Is(err, errors.ErrSessionExpired) {
//	    fmt.Println(errors.UserMessage(err))
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeValidation:
//	        showFieldErrors(domainErr.Details)
//	    case errors.CodeRemoteFailure:
//	        showRetryPrompt()
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the client.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeValidation         Code = "VALIDATION"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeSessionExpired     Code = "SESSION_EXPIRED"
	CodeRemoteFailure      Code = "REMOTE_FAILURE"
	CodeNothingToConfirm   Code = "NOTHING_TO_CONFIRM"
	CodeMalformedState     Code = "MALFORMED_STATE"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials, CodeTokenExpired, CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeValidation, CodeNothingToConfirm:
		return http.StatusBadRequest
	case CodeRemoteFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "token expired"}
	ErrSessionExpired     = &Error{Code: CodeSessionExpired, Message: "session expired"}
	ErrRemoteFailure      = &Error{Code: CodeRemoteFailure, Message: "remote failure"}
	ErrNothingToConfirm   = &Error{Code: CodeNothingToConfirm, Message: "nothing to confirm"}
	ErrMalformedState     = &Error{Code: CodeMalformedState, Message: "malformed persisted state"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// TokenExpired creates a token expired error.
func TokenExpired(msg string) *Error {
	return &Error{Code: CodeTokenExpired, Message: msg}
}

// SessionExpired creates a session expired error.
func SessionExpired(msg string) *Error {
	return &Error{Code: CodeSessionExpired, Message: msg}
}

// RemoteFailure creates a network or server failure error.
func RemoteFailure(msg string) *Error {
	return &Error{Code: CodeRemoteFailure, Message: msg}
}

// RemoteFailuref creates a network or server failure error with formatted message.
func RemoteFailuref(format string, args ...any) *Error {
	return &Error{Code: CodeRemoteFailure, Message: fmt.Sprintf(format, args...)}
}

// NothingToConfirm creates an empty-cart confirmation error.
func NothingToConfirm(msg string) *Error {
	return &Error{Code: CodeNothingToConfirm, Message: msg}
}

// MalformedState creates a corrupted persisted entry error.
func MalformedState(msg string) *Error {
	return &Error{Code: CodeMalformedState, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the outermost domain error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// UserMessage returns the text a view should show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return "Something went wrong. Please try again."
	}
	switch domainErr.Code {
	case CodeValidation, CodeNotFound, CodeConflict, CodeInvalidCredentials:
		return domainErr.Message
	case CodeSessionExpired, CodeTokenExpired, CodeUnauthorized:
		return "Session expired. Please log in again."
	case CodeNothingToConfirm:
		return "Your cart is empty. Please add events or vendors before confirming."
	default:
		return "Something went wrong. Please try again."
	}
}
