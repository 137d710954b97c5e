// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyUserID is returned when an operation is attempted without a user.
	ErrEmptyUserID = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)

	// ErrEmptyWord is returned when a vocabulary item has no word.
	ErrEmptyWord = fmt.Errorf("%w: word cannot be empty", ErrValidation)

	// ErrEmptyMeaning is returned when a vocabulary item has no meaning.
	ErrEmptyMeaning = fmt.Errorf("%w: meaning cannot be empty", ErrValidation)

	// ErrInvalidLearningStep is returned for a learning step outside 0..MaxLearningStep.
	ErrInvalidLearningStep = fmt.Errorf("%w: learning step out of range", ErrValidation)

	// ErrInvalidEaseFactor is returned for an ease factor outside [MinEaseFactor, MaxEaseFactor].
	ErrInvalidEaseFactor = fmt.Errorf("%w: ease factor out of range", ErrValidation)

	// ErrInvalidInterval is returned for a negative interval.
	ErrInvalidInterval = fmt.Errorf("%w: interval must not be negative", ErrValidation)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
