// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration and orders
//   - Market data errors (200-299): Missing ticks, stale data, query failures
//   - Strike selection errors (300-399): Spot/premium lookups during selection
//   - State persistence errors (400-499): Durable runtime state load/save
//   - Trading errors (500-599): Order placement and position management
//   - Engine errors (600-699): Strategy engine lifecycle
//   - Broker errors (700-799): Broker session and rejections
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeSpotUnavailable, "no spot tick at selection time")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeDataNotFound, "no ticks for token %d", token)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeConfigLocked) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// StaleDataError represents a tick that exists but is older than the freshness
// threshold for trading decisions.
type StaleDataError struct {
	AgeSeconds float64
	Threshold  float64
	Symbol     string
}

// NewStaleDataError creates a new StaleDataError.
func NewStaleDataError(ageSeconds, threshold float64, symbol string) *StaleDataError {
	return &StaleDataError{
		AgeSeconds: ageSeconds,
		Threshold:  threshold,
		Symbol:     symbol,
	}
}

// Error implements the error interface.
func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale data for %s: %.1fs old (threshold %.0fs)", e.Symbol, e.AgeSeconds, e.Threshold)
}

// IsStaleDataError checks if an error is a StaleDataError.
// It uses errors.As to check the error chain.
func IsStaleDataError(err error) bool {
	var staleErr *StaleDataError

	return errors.As(err, &staleErr)
}
