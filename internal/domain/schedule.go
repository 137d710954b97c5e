package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ease factor bounds shared by the scheduler and storage validation.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0
	DefaultEaseFactor = 2.5
)

// MaxLearningStep is the last step of the learning ladder. Advancing past it
// graduates an item to the review phase.
const MaxLearningStep = 3

// Quality is the self-graded recall quality of a single review.
type Quality int

// Possible quality values
const (
	QualityForgot Quality = 0
	QualityHard   Quality = 1
	QualityGood   Quality = 2
	QualityEasy   Quality = 3
)

// Valid reports whether q is one of the four defined grades.
func (q Quality) Valid() bool {
	return q >= QualityForgot && q <= QualityEasy
}

// Correct reports whether the answer counts as correct for statistics.
func (q Quality) Correct() bool {
	return q >= QualityGood
}

// String returns the lower-case grade name.
func (q Quality) String() string {
	switch q {
	case QualityForgot:
		return "forgot"
	case QualityHard:
		return "hard"
	case QualityGood:
		return "good"
	case QualityEasy:
		return "easy"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// PhaseKind names the two scheduling phases.
type PhaseKind string

// Phase kinds
const (
	PhaseLearning PhaseKind = "learning"
	PhaseReview   PhaseKind = "review"
)

// Phase is either Learning(step) with step in 0..MaxLearningStep, or Review.
// In the review phase the step counts completed reviews since graduation.
// The zero value is Learning(0).
type Phase struct {
	review bool
	step   int
}

// NewLearningPhase returns Learning(step), rejecting steps outside the ladder.
func NewLearningPhase(step int) (Phase, error) {
	if step < 0 || step > MaxLearningStep {
		return Phase{}, fmt.Errorf("%w: %d", ErrInvalidLearningStep, step)
	}
	return Phase{step: step}, nil
}

// NewReviewPhase returns a review phase that has seen the given number of
// reviews since graduation.
func NewReviewPhase(reviews int) Phase {
	if reviews < 0 {
		reviews = 0
	}
	return Phase{review: true, step: reviews}
}

// PhaseFromStep decodes the stored learning_step column: 0..3 are learning
// steps, 4 and above are the review phase.
func PhaseFromStep(step int) (Phase, error) {
	if step < 0 {
		return Phase{}, fmt.Errorf("%w: %d", ErrInvalidLearningStep, step)
	}
	if step <= MaxLearningStep {
		return Phase{step: step}, nil
	}
	return NewReviewPhase(step - MaxLearningStep - 1), nil
}

// Kind returns the phase kind.
func (p Phase) Kind() PhaseKind {
	if p.review {
		return PhaseReview
	}
	return PhaseLearning
}

// IsLearning reports whether the phase is a learning step.
func (p Phase) IsLearning() bool {
	return !p.review
}

// Step returns the learning step, or the review count in the review phase.
func (p Phase) Step() int {
	return p.step
}

// StoredStep encodes the phase for the learning_step column.
func (p Phase) StoredStep() int {
	if p.review {
		return MaxLearningStep + 1 + p.step
	}
	return p.step
}

// String renders the phase as "learning(2)" or "review".
func (p Phase) String() string {
	if p.review {
		return string(PhaseReview)
	}
	return fmt.Sprintf("%s(%d)", PhaseLearning, p.step)
}

// MarshalJSON encodes the phase as {"kind": ..., "step": ...}.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind PhaseKind `json:"kind"`
		Step int       `json:"step"`
	}{
		Kind: p.Kind(),
		Step: p.step,
	})
}

// ScheduleState is the per-user scheduling record for one vocabulary item.
// DueAt is authoritative; DueDate is its calendar projection kept for
// date-granular queries.
type ScheduleState struct {
	UserID          string        `json:"user_id"`
	VocabularyID    uuid.UUID     `json:"vocabulary_id"`
	Phase           Phase         `json:"phase"`
	EaseFactor      float64       `json:"ease_factor"`
	IntervalDays    int           `json:"interval_days"`
	IntervalMinutes int           `json:"interval_minutes"`
	DueAt           time.Time     `json:"due_at"`
	DueDate         time.Time     `json:"due_date"`
	ReviewCount     int           `json:"review_count"`
	Lapses          int           `json:"lapses"`
	LastReviewedAt  time.Time     `json:"last_reviewed_at"` // Zero when never reviewed; encoded as null
	Source          SourceContext `json:"source"`
	CreatedAt       time.Time     `json:"created_at"`
}

// MarshalJSON encodes a zero LastReviewedAt as null.
func (s ScheduleState) MarshalJSON() ([]byte, error) {
	type plain ScheduleState
	return json.Marshal(struct {
		plain
		LastReviewedAt *time.Time `json:"last_reviewed_at"`
	}{
		plain:          plain(s),
		LastReviewedAt: optionalTime(s.LastReviewedAt),
	})
}

// optionalTime returns nil for the zero time.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Validate checks the invariants of a schedule state.
func (s *ScheduleState) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}

	if s.VocabularyID == uuid.Nil {
		return NewValidationError("vocabulary_id", "cannot be empty", ErrInvalidID)
	}

	if s.Phase.IsLearning() && (s.Phase.Step() < 0 || s.Phase.Step() > MaxLearningStep) {
		return ErrInvalidLearningStep
	}

	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.IntervalDays < 0 || s.IntervalMinutes < 0 {
		return ErrInvalidInterval
	}

	return nil
}

// LastActivity returns the moment the memory-decay clock starts from:
// the last review, or the creation time for an item never reviewed.
func (s *ScheduleState) LastActivity() time.Time {
	if !s.LastReviewedAt.IsZero() {
		return s.LastReviewedAt
	}
	return s.CreatedAt
}

// IsDue reports whether the item should be presented at now.
func (s *ScheduleState) IsDue(now time.Time) bool {
	if !s.DueAt.IsZero() {
		return !s.DueAt.After(now)
	}
	return s.DueDate.IsZero() || !s.DueDate.After(CalendarDate(now))
}

// CalendarDate truncates t to its calendar day in t's location, expressed as
// midnight UTC so dates compare and store consistently.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
