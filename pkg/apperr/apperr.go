// Package apperr defines the application error contract shared across layers.
// Every error that crosses a package boundary is an *AppError carrying a
// stable code, an HTTP status, and optionally the underlying cause.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes. Handlers and tests match on these, never on messages.
const (
	CodeInvalidReference = "reference.invalid"
	CodeValidationFailed = "validation.failed"
	CodeUnauthenticated  = "auth.unauthenticated"
	CodeNotOwned         = "resource.not_owned"
	CodeNotFound         = "resource.not_found"
	CodeStoreUnavailable = "store.unavailable"
)

// AppError is the single application error type.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	label := e.Code
	if e.Message != "" {
		label = e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", label, e.Cause)
	}
	return label
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithDetails attaches structured details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewInvalidReference reports a malformed identifier. It is always raised
// before any store interaction.
func NewInvalidReference(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidReference,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewValidationFailed reports a missing or malformed request field.
func NewValidationFailed(message string) *AppError {
	return &AppError{
		Code:       CodeValidationFailed,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthenticated reports a request with no requester identity.
func NewUnauthenticated(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewNotOwned reports a conditional mutation that matched zero documents.
// Whether the entity is absent or owned by someone else is deliberately not
// distinguished: finding out would take a second, non-atomic read.
func NewNotOwned(message string) *AppError {
	return &AppError{
		Code:       CodeNotOwned,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewNotFound reports a read that resolved zero documents.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewStoreUnavailable reports a failed or timed-out store call. The cause is
// preserved and never retried at this layer.
func NewStoreUnavailable(message string, cause error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// CodeOf returns the application error code of err, or empty string when err
// is not an *AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given application error code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
