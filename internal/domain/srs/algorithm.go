package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

const minutesPerDay = 24 * 60

// clampEaseFactor keeps an ease factor within the configured limits.
func clampEaseFactor(ef float64, params *Params) float64 {
	if ef < params.MinEaseFactor {
		return params.MinEaseFactor
	}
	if ef > params.MaxEaseFactor {
		return params.MaxEaseFactor
	}
	return ef
}

// calculateLapse resets an item after a failed recall.
//
// Any answer below "good" sends the item back to the first learning step,
// regardless of the phase it was in. The ease factor is reduced by
// params.LapseEasePenalty but never below params.MinEaseFactor, so repeated
// failures converge on the same state.
//
// Parameters:
//   - next: The copy of the state being built; modified in place
//   - params: Configuration parameters for the scheduler
//
// Algorithm behavior:
//   - Phase becomes Learning(0) and the interval becomes the first ladder rung
//   - interval_days is zeroed since the item is back on minute granularity
//   - A lapse is counted only when the item had already graduated
func calculateLapse(next *domain.ScheduleState, params *Params) {
	if !next.Phase.IsLearning() {
		next.Lapses++
	}

	next.Phase = domain.Phase{}
	next.IntervalMinutes = params.firstInterval()
	next.IntervalDays = 0
	next.EaseFactor = clampEaseFactor(next.EaseFactor-params.LapseEasePenalty, params)
}

// calculateLearningStep advances an item through the learning ladder.
//
// A successful answer at Learning(step) moves the item to Learning(step+1)
// with the matching ladder interval. Answering correctly on the last rung
// graduates the item into the review phase with a fixed first interval of
// params.GraduationIntervalDays. The ease factor is untouched in both cases.
func calculateLearningStep(next *domain.ScheduleState, params *Params) {
	step := next.Phase.Step() + 1

	if step < len(params.LearningIntervals) {
		// Step is within the ladder, so the constructor cannot fail
		next.Phase, _ = domain.NewLearningPhase(step)
		next.IntervalMinutes = params.LearningIntervals[step]
		next.IntervalDays = 0
		return
	}

	next.Phase = domain.NewReviewPhase(0)
	next.IntervalDays = params.GraduationIntervalDays
	next.IntervalMinutes = params.GraduationIntervalDays * minutesPerDay
}

// calculateReviewInterval determines the next interval in days for a
// graduated item.
//
// Parameters:
//   - currentDays: The interval in days used for the previous review
//   - easeFactor: The item's current ease factor
//   - quality: The answer grade; only good and easy reach this function
//   - params: Configuration parameters for the scheduler
//
// Returns:
//   - The new interval in days
//   - The new ease factor
//
// Algorithm behavior:
//   - "Good": floor(days * ease), at least params.MinGoodIntervalDays; ease unchanged
//     apart from clamping
//   - "Easy": floor(days * ease * params.EasyIntervalBonus), at least
//     params.MinEasyIntervalDays; ease raised by params.EasyEaseBonus up to the maximum
//   - Both are capped at params.MaxIntervalDays
func calculateReviewInterval(
	currentDays int,
	easeFactor float64,
	quality domain.Quality,
	params *Params,
) (int, float64) {
	if quality == domain.QualityEasy {
		days := float64(currentDays) * easeFactor * params.EasyIntervalBonus
		return max(params.MinEasyIntervalDays, capIntervalDays(days, params)),
			clampEaseFactor(easeFactor+params.EasyEaseBonus, params)
	}

	days := float64(currentDays) * easeFactor
	return max(params.MinGoodIntervalDays, capIntervalDays(days, params)),
		clampEaseFactor(easeFactor, params)
}

// capIntervalDays floors a computed interval and limits it to
// params.MaxIntervalDays before it is converted to an int.
func capIntervalDays(days float64, params *Params) int {
	return int(math.Floor(min(days, float64(params.MaxIntervalDays))))
}

// calculateNextState creates a new ScheduleState for an answer given at now.
//
// The rules are evaluated in priority order: a failed recall always resets,
// then learning items climb the ladder or graduate, then graduated items grow
// their interval. The input state is never modified; a copy is returned.
//
// After the interval is chosen the due time is derived from it:
// due_at = now + interval_minutes, and due_date is the calendar day of due_at
// in now's location. review_count is incremented and last_reviewed_at is set
// to now.
func calculateNextState(
	state *domain.ScheduleState,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.ScheduleState {
	next := *state

	switch {
	case quality < domain.QualityGood:
		calculateLapse(&next, params)
	case next.Phase.IsLearning():
		calculateLearningStep(&next, params)
	default:
		next.IntervalDays, next.EaseFactor = calculateReviewInterval(
			state.IntervalDays,
			state.EaseFactor,
			quality,
			params,
		)
		next.IntervalMinutes = next.IntervalDays * minutesPerDay
		next.Phase = domain.NewReviewPhase(state.Phase.Step() + 1)
	}

	dueAt := now.Add(time.Duration(next.IntervalMinutes) * time.Minute)
	next.DueAt = dueAt
	next.DueDate = domain.CalendarDate(dueAt)
	next.ReviewCount++
	next.LastReviewedAt = now

	return &next
}

// Transition classifies the phase change produced by one answer.
type Transition string

// Possible transitions
const (
	TransitionLearningAdvanced Transition = "learning_advanced"
	TransitionGraduated        Transition = "graduated"
	TransitionReviewExtended   Transition = "review_extended"
	TransitionLapsed           Transition = "lapsed"
	TransitionRelearnReset     Transition = "relearn_reset"
)

// ClassifyTransition reports which rule an answer of the given quality
// applies to a state in phase.
func ClassifyTransition(phase domain.Phase, quality domain.Quality) Transition {
	switch {
	case quality < domain.QualityGood && phase.IsLearning():
		return TransitionRelearnReset
	case quality < domain.QualityGood:
		return TransitionLapsed
	case phase.IsLearning() && phase.Step() < domain.MaxLearningStep:
		return TransitionLearningAdvanced
	case phase.IsLearning():
		return TransitionGraduated
	default:
		return TransitionReviewExtended
	}
}
