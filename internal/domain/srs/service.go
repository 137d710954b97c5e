package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("schedule state cannot be nil")
	ErrInvalidQuality = errors.New("invalid review quality")
)

// Service defines the interface for scheduling operations
type Service interface {
	// NewState returns the schedule of a freshly saved item: Learning(0),
	// default ease, due one ladder rung after now.
	NewState(
		userID string,
		vocabularyID uuid.UUID,
		source domain.SourceContext,
		now time.Time,
	) (*domain.ScheduleState, error)

	// Advance computes the state after answering with the given quality at now.
	// It fails only for a nil state or a quality outside 0..3.
	Advance(
		state *domain.ScheduleState,
		quality domain.Quality,
		now time.Time,
	) (*domain.ScheduleState, error)

	// Strength estimates the current memory strength of an item in [0, 1].
	Strength(state *domain.ScheduleState, now time.Time) float64
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// NewState implements the Service interface for freshly saved items
func (s *defaultService) NewState(
	userID string,
	vocabularyID uuid.UUID,
	source domain.SourceContext,
	now time.Time,
) (*domain.ScheduleState, error) {
	interval := s.params.firstInterval()
	dueAt := now.Add(time.Duration(interval) * time.Minute)

	state := &domain.ScheduleState{
		UserID:          userID,
		VocabularyID:    vocabularyID,
		EaseFactor:      s.params.DefaultEaseFactor,
		IntervalMinutes: interval,
		DueAt:           dueAt,
		DueDate:         domain.CalendarDate(dueAt),
		Source:          source,
		CreatedAt:       now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Advance implements the Service interface for answering a review
func (s *defaultService) Advance(
	state *domain.ScheduleState,
	quality domain.Quality,
	now time.Time,
) (*domain.ScheduleState, error) {
	// Validate inputs
	if state == nil {
		return nil, ErrNilState
	}

	if !quality.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	return calculateNextState(state, quality, now, s.params), nil
}

// Strength implements the Service interface for memory strength estimation
func (s *defaultService) Strength(state *domain.ScheduleState, now time.Time) float64 {
	if state == nil {
		return 0
	}
	return calculateStrength(state.LastActivity(), state.IntervalMinutes, state.Phase, now, s.params)
}
