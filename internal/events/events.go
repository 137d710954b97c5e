package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StudyEventType names what happened in a study session.
type StudyEventType string

// Study event types
const (
	// WordLearned is emitted when a user saves a word.
	WordLearned StudyEventType = "word_learned"

	// ReviewRecorded is emitted when a user answers a review.
	ReviewRecorded StudyEventType = "review_recorded"
)

// StudyEvent describes one study activity of a user. Progress tracking
// consumes these without the vocabulary service knowing about it.
type StudyEvent struct {
	ID           uuid.UUID      `json:"id"`
	Type         StudyEventType `json:"type"`
	UserID       string         `json:"user_id"`
	VocabularyID uuid.UUID      `json:"vocabulary_id"`

	// Correct is set for ReviewRecorded events when the answer was good or easy.
	Correct bool `json:"correct,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewWordLearnedEvent creates a WordLearned event.
func NewWordLearnedEvent(userID string, vocabularyID uuid.UUID, at time.Time) *StudyEvent {
	return &StudyEvent{
		ID:           uuid.New(),
		Type:         WordLearned,
		UserID:       userID,
		VocabularyID: vocabularyID,
		OccurredAt:   at,
	}
}

// NewReviewRecordedEvent creates a ReviewRecorded event.
func NewReviewRecordedEvent(userID string, vocabularyID uuid.UUID, correct bool, at time.Time) *StudyEvent {
	return &StudyEvent{
		ID:           uuid.New(),
		Type:         ReviewRecorded,
		UserID:       userID,
		VocabularyID: vocabularyID,
		Correct:      correct,
		OccurredAt:   at,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *StudyEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *StudyEvent) error
}
