// Package errors provides standardized domain errors with codes for the BookQuest API.
//
// Usage:
//
//	// In services - return typed errors
//	if !engine.Ready() {
//	    return errors.NotReady("catalog is still loading")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotReady) {
//	    response.Unavailable(w, err.Error(), logger)
//	    return
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeNotReady:
//	        response.Unavailable(w, domainErr.Message, logger)
//	    case errors.CodeValidation:
//	        response.BadRequest(w, domainErr.Message, logger)
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

// Error codes used throughout the application.
const (
	CodeNotFound    Code = "NOT_FOUND"
	CodeValidation  Code = "VALIDATION"
	CodeInternal    Code = "INTERNAL"
	CodeCatalogLoad Code = "CATALOG_LOAD"
	CodeIndexBuild  Code = "INDEX_BUILD"
	CodeNotReady    Code = "NOT_READY"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotReady:
		return http.StatusServiceUnavailable
	default:
		// Build-time fatals (CodeCatalogLoad, CodeIndexBuild) should never
		// reach a response writer, but map to 500 if they do.
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
	ErrNotFound    = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation  = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal    = &Error{Code: CodeInternal, Message: "internal error"}
	ErrCatalogLoad = &Error{Code: CodeCatalogLoad, Message: "catalog load failed"}
	ErrIndexBuild  = &Error{Code: CodeIndexBuild, Message: "index build failed"}
	ErrNotReady    = &Error{Code: CodeNotReady, Message: "not ready"}
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

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// CatalogLoad creates a catalog load error.
func CatalogLoad(msg string) *Error {
	return &Error{Code: CodeCatalogLoad, Message: msg}
}

// CatalogLoadf creates a catalog load error with formatted message.
func CatalogLoadf(format string, args ...any) *Error {
	return &Error{Code: CodeCatalogLoad, Message: fmt.Sprintf(format, args...)}
}

// IndexBuild creates an index build error.
func IndexBuild(msg string) *Error {
	return &Error{Code: CodeIndexBuild, Message: msg}
}

// IndexBuildf creates an index build error with formatted message.
func IndexBuildf(format string, args ...any) *Error {
	return &Error{Code: CodeIndexBuild, Message: fmt.Sprintf(format, args...)}
}

// NotReady creates a not ready error.
func NotReady(msg string) *Error {
	return &Error{Code: CodeNotReady, Message: msg}
}
