// Package errors provides structured error types for albumstack.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Block-level validation failures that name the offending index and field
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure classes of the layout core:
//   - STRUCTURAL: a required field is missing or has the wrong shape
//   - RANGE: a numeric field lies outside its declared bound
//   - REFERENCE: an operation names a block or asset that does not exist
//   - CONFLICT: a write raced another write (stale document revision)
//
// Grid over-demand is never an error: grids grow rows instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeReference, "asset %q not found", id)
//	if errors.Is(err, errors.ErrCodeReference) {
//	    // Handle dangling reference
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save %s", docID)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Block validation errors
	ErrCodeStructural Code = "STRUCTURAL"
	ErrCodeRange      Code = "RANGE"

	// Reference errors
	ErrCodeReference Code = "REFERENCE"
	ErrCodeNotFound  Code = "NOT_FOUND"

	// Input errors outside block validation (ids, flags, request bodies)
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Concurrency errors
	ErrCodeConflict Code = "CONFLICT"

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

// ValidationError reports a rejected block. Index is the position of the
// block in the list being validated (-1 when validating a lone block) and
// Field is the JSON name of the offending field, dotted for nested fields
// ("spacing.gapX", "spans[2].cols").
type ValidationError struct {
	Code    Code
	Index   int
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: blocks[%d].%s: %s", e.Code, e.Index, e.Field, e.Message)
}

// Structural creates a ValidationError for a missing or malformed field.
func Structural(index int, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: ErrCodeStructural, Index: index, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Range creates a ValidationError for a numeric field outside its bound.
func Range(index int, field, format string, args ...any) *ValidationError {
	return &ValidationError{Code: ErrCodeRange, Index: index, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *ValidationError
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// AsValidation returns the first ValidationError in err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Index < 0 {
			return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
		}
		return fmt.Sprintf("block %d, %s: %s", ve.Index, ve.Field, ve.Message)
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
