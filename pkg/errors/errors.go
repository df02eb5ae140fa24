// Package errors provides structured error types for groupflow.
//
// The grouping engine never crashes on bad input: every failure degrades to
// "no change committed" and is reported as an [Error] carrying a [Code] so
// hosts can decide whether to surface, log, or ignore it.
//
// # Error Codes
//
//   - MISSING_ENTITY: a referenced node or group id is not in the current collection
//   - MALFORMED_GEOMETRY: dimensions are missing where no fallback applies
//   - NESTED_GROUP: a parent chain deeper than one level (groups inside groups)
//   - INVARIANT_VIOLATION: a committed collection breaks a layout invariant
//   - INVALID_*: bad external input (scenario files, HTTP payloads)
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingEntity, "group %q not found", id)
//	if errors.Is(err, errors.ErrCodeMissingEntity) {
//	    // stale id, nothing was committed
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors
	ErrCodeMissingEntity     Code = "MISSING_ENTITY"
	ErrCodeMalformedGeometry Code = "MALFORMED_GEOMETRY"
	ErrCodeNestedGroup       Code = "NESTED_GROUP"
	ErrCodeInvariant         Code = "INVARIANT_VIOLATION"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNoOp reports whether err is one of the engine's degrade-to-no-change
// failures (missing entity or malformed geometry) rather than a real fault.
func IsNoOp(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingEntity, ErrCodeMalformedGeometry:
		return true
	}
	return false
}
