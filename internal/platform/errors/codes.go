package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"

	// User errors
	CodeUserEmptyEmail    Code = "USER_EMPTY_EMAIL"
	CodeUserInvalidEmail  Code = "USER_INVALID_EMAIL"
	CodeUserEmptyPassword Code = "USER_EMPTY_PASSWORD"
	CodeUserEmailTaken    Code = "USER_EMAIL_TAKEN"

	// Post errors
	CodePostEmptyTitle   Code = "POST_EMPTY_TITLE"
	CodePostEmptyContent Code = "POST_EMPTY_CONTENT"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeUserEmptyEmail,
		CodeUserInvalidEmail,
		CodeUserEmptyPassword,
		CodePostEmptyTitle,
		CodePostEmptyContent,
		CodeInvalidArgument:
		return http.StatusBadRequest

	// Unauthorized - caller identity could not be established
	case CodeInvalidCredentials:
		return http.StatusUnauthorized

	// Forbidden - authenticated but not the resource owner
	case CodeForbidden:
		return http.StatusForbidden

	// NotFound - resource absent
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - duplicate unique field
	case CodeUserEmailTaken:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
