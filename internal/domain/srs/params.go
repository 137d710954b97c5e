package srs

import (
	"errors"
	"fmt"
	"math"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot drive the scheduler.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// maxIntervalDaysLimit keeps interval_minutes within a 32-bit column.
const maxIntervalDaysLimit = math.MaxInt32 / minutesPerDay

// Params defines all configurable parameters of the scheduler and the
// memory strength estimator.
type Params struct {
	// Learning ladder: minutes until the next review for each learning step
	LearningIntervals []int

	// First review-phase interval after graduating
	GraduationIntervalDays int

	// Core limits
	MinEaseFactor     float64
	MaxEaseFactor     float64
	DefaultEaseFactor float64

	// Ease adjustments
	LapseEasePenalty float64
	EasyEaseBonus    float64

	// Review-phase interval growth
	EasyIntervalBonus   float64
	MinGoodIntervalDays int
	MinEasyIntervalDays int
	MaxIntervalDays     int

	// Memory decay
	FreshHalfLifeMinutes float64
	MinHalfLifeMinutes   float64
	HalfLifeRatio        float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		// 20 minutes, 1 hour, 9 hours, 1 day
		LearningIntervals:      []int{20, 60, 540, 1440},
		GraduationIntervalDays: 2,

		MinEaseFactor:     domain.MinEaseFactor,
		MaxEaseFactor:     domain.MaxEaseFactor,
		DefaultEaseFactor: domain.DefaultEaseFactor,

		LapseEasePenalty: 0.2,
		EasyEaseBonus:    0.1,

		EasyIntervalBonus:   1.3,
		MinGoodIntervalDays: 2,
		MinEasyIntervalDays: 3,
		// 100 years
		MaxIntervalDays: 36500,

		FreshHalfLifeMinutes: 15,
		MinHalfLifeMinutes:   10,
		HalfLifeRatio:        0.4,
	}
}

// Validate checks that the parameters describe a usable schedule.
func (p *Params) Validate() error {
	if len(p.LearningIntervals) != domain.MaxLearningStep+1 {
		return fmt.Errorf("%w: learning ladder needs %d steps, got %d",
			ErrInvalidParams, domain.MaxLearningStep+1, len(p.LearningIntervals))
	}
	for i, minutes := range p.LearningIntervals {
		if minutes <= 0 {
			return fmt.Errorf("%w: learning interval %d must be positive", ErrInvalidParams, i)
		}
	}
	if p.GraduationIntervalDays <= 0 {
		return fmt.Errorf("%w: graduation interval must be positive", ErrInvalidParams)
	}
	if p.MinEaseFactor <= 0 || p.MinEaseFactor > p.MaxEaseFactor {
		return fmt.Errorf("%w: ease factor bounds [%v, %v]",
			ErrInvalidParams, p.MinEaseFactor, p.MaxEaseFactor)
	}
	if p.DefaultEaseFactor < p.MinEaseFactor || p.DefaultEaseFactor > p.MaxEaseFactor {
		return fmt.Errorf("%w: default ease factor %v outside bounds", ErrInvalidParams, p.DefaultEaseFactor)
	}
	if p.MaxIntervalDays < max(p.GraduationIntervalDays, p.MinGoodIntervalDays, p.MinEasyIntervalDays) {
		return fmt.Errorf("%w: max interval %d days is below the minimum intervals",
			ErrInvalidParams, p.MaxIntervalDays)
	}
	if p.MaxIntervalDays > maxIntervalDaysLimit {
		return fmt.Errorf("%w: max interval %d days exceeds %d",
			ErrInvalidParams, p.MaxIntervalDays, maxIntervalDaysLimit)
	}
	if p.FreshHalfLifeMinutes <= 0 || p.MinHalfLifeMinutes <= 0 || p.HalfLifeRatio <= 0 {
		return fmt.Errorf("%w: half-life settings must be positive", ErrInvalidParams)
	}
	return nil
}

// firstInterval returns the interval of a freshly saved or reset item.
func (p *Params) firstInterval() int {
	return p.LearningIntervals[0]
}
