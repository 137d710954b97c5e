package vocabulary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
)

// SaveRequest describes a word a user wants to study.
type SaveRequest struct {
	Word    string
	Meaning string
	Level   string
	Example string
	Source  domain.SourceContext
}

// Entry is one saved item together with its schedule and the current
// memory strength estimate.
type Entry struct {
	Item           domain.VocabularyItem `json:"item"`
	State          domain.ScheduleState  `json:"state"`
	MemoryStrength float64               `json:"memory_strength"`
}

// ReviewResult is the outcome of answering a review.
type ReviewResult struct {
	State          *domain.ScheduleState `json:"state"`
	Transition     srs.Transition        `json:"transition"`
	MemoryStrength float64               `json:"memory_strength"`
}

// Service manages the words a user studies and schedules their reviews.
type Service interface {
	// Save stores a word in the catalog if it is new and (re)starts the
	// user's schedule for it at the first learning step.
	//
	// Returns:
	//   - (*domain.SavedVocabulary, nil): The catalog item and the fresh schedule
	//   - (nil, domain.ErrValidation family): Empty user, word or meaning
	//   - (nil, *ServiceError): Persistence failure
	Save(ctx context.Context, userID string, req SaveRequest) (*domain.SavedVocabulary, error)

	// List returns the user's items with their memory strength. With dueOnly
	// set only items due now are returned, soonest first.
	List(ctx context.Context, userID string, dueOnly bool) ([]Entry, error)

	// Review records an answer of the given quality and reschedules the item.
	// The schedule is read, advanced and written in one transaction.
	//
	// Returns:
	//   - (*ReviewResult, nil): The new schedule and the transition applied
	//   - (nil, ErrInvalidQuality): Quality outside 0..3
	//   - (nil, ErrVocabularyNotFound): The user has not saved the item
	//   - (nil, *ServiceError): Persistence failure
	Review(ctx context.Context, userID string, vocabularyID uuid.UUID, quality domain.Quality) (*ReviewResult, error)

	// Delete removes the user's schedule for an item. Deleting an item that
	// is not saved is not an error.
	Delete(ctx context.Context, userID string, vocabularyID uuid.UUID) error

	// IsSaved reports whether the user saved the word, ignoring case and
	// surrounding whitespace.
	IsSaved(ctx context.Context, userID string, word string) (bool, error)
}

// Common error types for the vocabulary Service
var (
	// ErrVocabularyNotFound indicates the user has not saved the item.
	ErrVocabularyNotFound = errors.New("vocabulary not found")

	// ErrInvalidQuality indicates a review quality outside 0..3.
	ErrInvalidQuality = fmt.Errorf("%w: quality must be between 0 and 3", domain.ErrValidation)
)

// ServiceError wraps errors from the vocabulary service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "save", "review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
