// Package errors provides structured error types for gvlayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API, and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - INVALID_*: bad input (graph files, configuration)
//   - LAUNCH_FAILED, IO_ERROR, TIMEOUT, ENGINE_EXIT, CANCELED: a layout pass
//     that could not talk to the external engine
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Per-record parse problems are never errors; they are reported as skips in a
// layout report.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "binary path is empty")
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLaunch, origErr, "start %s", binary)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Engine errors
	ErrCodeLaunch     Code = "LAUNCH_FAILED"
	ErrCodeIO         Code = "IO_ERROR"
	ErrCodeTimeout    Code = "TIMEOUT"
	ErrCodeCanceled   Code = "CANCELED"
	ErrCodeEngineExit Code = "ENGINE_EXIT"

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

// ExitError describes an engine that terminated with a non-zero status.
// It is the cause attached to ENGINE_EXIT errors.
type ExitError struct {
	Status int    // Process exit status
	Stderr string // Diagnostic text captured from the engine, possibly truncated
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("engine exited with status %d: %s", e.Status, e.Stderr)
	}
	return fmt.Sprintf("engine exited with status %d", e.Status)
}

// Code returns the error code for this error type.
func (e *ExitError) Code() Code {
	return ErrCodeEngineExit
}
