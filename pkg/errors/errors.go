package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Instance errors
	ErrInstanceNotFound ErrorCode = "INSTANCE_NOT_FOUND"
	ErrInstanceExists   ErrorCode = "INSTANCE_EXISTS"
	ErrInstanceInvalid  ErrorCode = "INSTANCE_INVALID"

	// Manifest errors
	ErrManifestNotFound ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestCorrupt  ErrorCode = "MANIFEST_CORRUPT"
	ErrManifestPersist  ErrorCode = "MANIFEST_PERSIST"

	// Fetch/transport errors
	ErrFetchTransient ErrorCode = "FETCH_TRANSIENT"
	ErrFetchPermanent ErrorCode = "FETCH_PERMANENT"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"

	// Sync errors
	ErrRemovalFailed ErrorCode = "REMOVAL_FAILED"

	// Loader errors
	ErrLoaderUnknown      ErrorCode = "LOADER_UNKNOWN"
	ErrLoaderIncompatible ErrorCode = "LOADER_INCOMPATIBLE"
	ErrLoaderNoVersion    ErrorCode = "LOADER_NO_VERSION"

	// Catalog errors
	ErrCatalogRequest  ErrorCode = "CATALOG_REQUEST"
	ErrCatalogDecode   ErrorCode = "CATALOG_DECODE"
	ErrCatalogMismatch ErrorCode = "CATALOG_MISMATCH"
	ErrPackNotFound    ErrorCode = "PACK_NOT_FOUND"
)

// PacksmithError represents a structured error with code and details
type PacksmithError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PacksmithError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PacksmithError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PacksmithError) Is(target error) bool {
	var targetErr *PacksmithError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PacksmithError with the given code and message
func New(code ErrorCode, message string) *PacksmithError {
	return &PacksmithError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PacksmithError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PacksmithError {
	return &PacksmithError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PacksmithError
func Wrap(err error, code ErrorCode, message string) *PacksmithError {
	if err == nil {
		return nil
	}
	return &PacksmithError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PacksmithError {
	if err == nil {
		return nil
	}
	return &PacksmithError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PacksmithError) WithDetail(key string, value interface{}) *PacksmithError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var perr *PacksmithError
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a
// PacksmithError
func GetErrorCode(err error) ErrorCode {
	var perr *PacksmithError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ErrUnknown
}

// IsTransient reports whether an error is safe to retry by re-running the
// whole operation. Only fetch errors classified as transient qualify.
func IsTransient(err error) bool {
	return IsErrorCode(err, ErrFetchTransient)
}
