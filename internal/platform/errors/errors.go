// Package errors provides structured error handling with HTTP status mapping.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Domain is the error domain for Inkpost errors.
const Domain = "github.com/inkpost/inkpost"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HTTPStatus maps an error to an HTTP status code.
// Errors outside the domain type map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var domainErr *Error
	if !stderrors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}
	return domainErr.Code.HTTPStatus()
}
