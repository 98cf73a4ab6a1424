// Package errors provides structured error types for macroscout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The inspection pipeline distinguishes three failure families:
//
//   - REGISTRY_ERROR: a registry endpoint answered with a non-success status
//     (see [RegistryError], which also carries the status and crate name)
//   - ARCHIVE_FORMAT: a downloaded archive is not valid gzip-compressed tar
//   - MANIFEST_PARSE: a manifest entry was found but could not be decoded or parsed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeArchiveFormat, origErr, "read tar header")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"

	// Registry and transport errors
	ErrCodeRegistry Code = "REGISTRY_ERROR"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Archive and manifest errors
	ErrCodeArchiveFormat    Code = "ARCHIVE_FORMAT"
	ErrCodeManifestParse    Code = "MANIFEST_PARSE"
	ErrCodeManifestNotFound Code = "MANIFEST_NOT_FOUND"
	ErrCodeReleaseNotFound  Code = "RELEASE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error or *RegistryError with a
// matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var re *RegistryError
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		return e.Code
	case errors.As(err, &re):
		return re.Code()
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

// RegistryError reports a non-success HTTP status from a registry endpoint.
type RegistryError struct {
	Status     int    // HTTP status code
	Identifier string // Crate the request was about (may be empty)
	URL        string // Requested URL
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "unknown status"
	}
	if e.Identifier == "" {
		return fmt.Sprintf("registry returned %d %s for %s", e.Status, text, e.URL)
	}
	return fmt.Sprintf("registry returned %d %s for crate %s", e.Status, text, e.Identifier)
}

// Code returns the error code for this error type.
func (e *RegistryError) Code() Code {
	return ErrCodeRegistry
}

// NotFound reports whether the registry answered 404.
func (e *RegistryError) NotFound() bool {
	return e.Status == http.StatusNotFound
}
