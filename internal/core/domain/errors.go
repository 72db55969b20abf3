// Package domain defines the core domain errors for Jubilee.
package domain

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration failure with a structured error code.
//
// Two ConfigErrors are considered equal by errors.Is when their codes match,
// so callers compare against the sentinels below rather than messages.
type ConfigError struct {
	Code    string // Error code (e.g., "JB-CONF-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewConfigError creates a new ConfigError with the given code and message.
func NewConfigError(code, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *ConfigError) WithDetails(details string) *ConfigError {
	return &ConfigError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// Detailf is WithDetails with fmt.Sprintf formatting.
func (e *ConfigError) Detailf(format string, args ...any) *ConfigError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *ConfigError) WithCause(cause error) *ConfigError {
	return &ConfigError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsConfigError checks if an error is a ConfigError with the given code.
// If code is empty, it only checks if the error is a ConfigError.
func IsConfigError(err error, code string) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		if code == "" {
			return true
		}
		return ce.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ============================================================================
// Address Errors (ADDR)
// ============================================================================

var (
	// ErrInvalidAddress indicates a listen address that matches no recognized
	// form or cannot be canonicalized.
	ErrInvalidAddress = NewConfigError("JB-ADDR-4000", "invalid address")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrValidation indicates a type or range violation on a setting.
	ErrValidation = NewConfigError("JB-CONF-4001", "invalid setting")

	// ErrAccessibility indicates the configuration file would not be readable
	// from the requested working directory. It matches ErrValidation as well.
	ErrAccessibility = &ConfigError{
		Code:    "JB-CONF-4002",
		Message: "not accessible",
		Cause:   ErrValidation,
	}

	// ErrScript indicates a syntax error in the configuration script.
	ErrScript = NewConfigError("JB-CONF-4003", "configuration script error")

	// ErrFrozen indicates a mutation attempt after the configuration was resolved.
	ErrFrozen = NewConfigError("JB-CONF-4090", "configuration is frozen")
)

// ============================================================================
// Application Errors (APP)
// ============================================================================

var (
	// ErrResolution indicates the application source could not be loaded or
	// instantiated.
	ErrResolution = NewConfigError("JB-APP-5000", "application resolution failed")
)
