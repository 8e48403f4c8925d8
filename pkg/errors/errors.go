// Package errors provides structured error types for the linkage solver.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP host
//   - Machine-readable error codes that map onto boundary status codes
//   - Identification of the offending scissor unit in a chain
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the solver's error taxonomy:
//   - ALLOCATION_ERROR: a requested store size cannot be satisfied
//   - INDEX_OUT_OF_RANGE: a store was accessed outside [0, n)
//   - INVALID_DIMENSION: a rod specification violates its invariants
//   - DEGENERATE_GEOMETRY: a unit admits no real triangle solution
//   - INVALID_HANDLE: an unknown, foreign or already released handle
//   - INVALID_INPUT / INVALID_FORMAT: host-side input problems
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.AtUnit(errors.ErrCodeInvalidDimension, 3, "c=%g exceeds a=%g", c, a)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    i, _ := errors.UnitIndex(err) // 3
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Solver errors
	ErrCodeAllocation         Code = "ALLOCATION_ERROR"
	ErrCodeIndexOutOfRange    Code = "INDEX_OUT_OF_RANGE"
	ErrCodeInvalidDimension   Code = "INVALID_DIMENSION"
	ErrCodeDegenerateGeometry Code = "DEGENERATE_GEOMETRY"

	// Boundary errors
	ErrCodeInvalidHandle Code = "INVALID_HANDLE"

	// Host input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// NoUnit marks an error that is not attributed to a particular unit.
const NoUnit = -1

// Error is a structured error with a code, an optional unit index and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Unit    int    // Index of the offending unit, or NoUnit
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Unit != NoUnit {
		msg = fmt.Sprintf("unit %d: %s", e.Unit, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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
		Unit:    NoUnit,
	}
}

// AtUnit creates a new Error attributed to the unit at index.
func AtUnit(code Code, index int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Unit:    index,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Unit:    NoUnit,
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

// UnitIndex returns the unit an error is attributed to.
// The boolean is false when err carries no unit index.
func UnitIndex(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Unit != NoUnit {
		return e.Unit, true
	}
	return NoUnit, false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Unit != NoUnit {
			return fmt.Sprintf("unit %d: %s", e.Unit, e.Message)
		}
		return e.Message
	}
	return err.Error()
}
