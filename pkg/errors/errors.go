package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation indicates per-field validation failures of a dynamic form
	ErrValidation = errors.New("validation failed")

	// ErrDefinitionUnavailable indicates neither the requested nor the fallback form definition could be loaded
	ErrDefinitionUnavailable = errors.New("form definition unavailable")

	// ErrConfiguration indicates a server-side misconfiguration (not retriable)
	ErrConfiguration = errors.New("configuration error")

	// ErrRelay indicates the inquiry relay rejected a submission
	ErrRelay = errors.New("relay error")

	// ErrNetwork indicates an upstream service could not be reached or answered garbage
	ErrNetwork = errors.New("network error")

	// ErrSuggestion indicates the text-generation upstream failed
	ErrSuggestion = errors.New("suggestion failed")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// RelayError carries the message returned by the relay service.
type RelayError struct {
	Message string
}

func (e *RelayError) Error() string {
	if e.Message == "" {
		return ErrRelay.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRelay.Error(), e.Message)
}

// Unwrap lets errors.Is(err, ErrRelay) match.
func (e *RelayError) Unwrap() error {
	return ErrRelay
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// DefinitionUnavailableError creates a definition-unavailable error for the given form id
func DefinitionUnavailableError(formID string, cause error) error {
	if cause != nil {
		return fmt.Errorf("form %q: %w: %v", formID, ErrDefinitionUnavailable, cause)
	}
	return fmt.Errorf("form %q: %w", formID, ErrDefinitionUnavailable)
}

// ConfigurationError creates a configuration error naming the missing setting
func ConfigurationError(setting string) error {
	return fmt.Errorf("%s is not configured: %w", setting, ErrConfiguration)
}

// NetworkError wraps a transport or decoding failure of an upstream call
func NetworkError(service string, cause error) error {
	return fmt.Errorf("%s: %w: %v", service, ErrNetwork, cause)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
