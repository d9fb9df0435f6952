// Package errors provides structured error types for the heatmap generator.
//
// Every error raised by the pipeline carries a Code. The code decides how far
// the failure propagates:
//   - Fatal codes (CONNECTION, QUERY, ALLOCATION) end the whole batch.
//   - Every other code is local to the map being built; the batch logs it and
//     moves on to the next map.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfBounds, "pixel %d,%d outside %dx%d", x, y, w, h)
//	if errors.IsFatal(err) {
//	    return err
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeQuery, origErr, "fetch events for %s", mapName)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Process-fatal errors
	ErrCodeConnection Code = "CONNECTION"
	ErrCodeQuery      Code = "QUERY"
	ErrCodeAllocation Code = "ALLOCATION"

	// Map-local errors
	ErrCodeMissingImage Code = "MISSING_IMAGE"
	ErrCodeOutOfBounds  Code = "OUT_OF_BOUNDS"
	ErrCodeImageRead    Code = "IMAGE_READ"
	ErrCodeComposite    Code = "COMPOSITE"
	ErrCodeImageWrite   Code = "IMAGE_WRITE"

	// Configuration errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
)

// fatalCodes lists the codes that abort the whole batch.
var fatalCodes = map[Code]bool{
	ErrCodeConnection:    true,
	ErrCodeQuery:         true,
	ErrCodeAllocation:    true,
	ErrCodeInvalidConfig: true,
}

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

// IsFatal reports whether err must stop the batch.
// Errors without a code are treated as fatal: only failures the pipeline has
// classified as map-local are allowed to be skipped.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	code := GetCode(err)
	if code == "" {
		return true
	}
	return fatalCodes[code]
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
