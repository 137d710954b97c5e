package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// calculateHalfLife returns the decay half-life in minutes for an item.
//
// A freshly introduced item (first learning step on its first rung) decays
// with a fixed params.FreshHalfLifeMinutes. Every other item decays with a
// half-life proportional to the interval the scheduler chose for it, floored
// at params.MinHalfLifeMinutes, so items scheduled further out are modeled as
// fading more slowly.
func calculateHalfLife(intervalMinutes int, phase domain.Phase, params *Params) float64 {
	if phase.IsLearning() && phase.Step() == 0 && intervalMinutes <= params.firstInterval() {
		return params.FreshHalfLifeMinutes
	}
	return math.Max(params.MinHalfLifeMinutes, params.HalfLifeRatio*float64(intervalMinutes))
}

// calculateStrength estimates how well an item is remembered at now.
//
// Parameters:
//   - lastActivity: The last review time, or the creation time of an item never reviewed
//   - intervalMinutes: The currently scheduled interval
//   - phase: The current scheduling phase
//   - now: The time the estimate is made for
//   - params: Configuration parameters for the estimator
//
// Returns:
//   - exp(-elapsed/half_life) clamped to [0, 1]
//
// A zero lastActivity is treated as now, yielding full strength. Elapsed time
// is measured in minutes and a negative elapsed time from clock skew counts
// as zero.
func calculateStrength(
	lastActivity time.Time,
	intervalMinutes int,
	phase domain.Phase,
	now time.Time,
	params *Params,
) float64 {
	if lastActivity.IsZero() {
		lastActivity = now
	}

	elapsed := now.Sub(lastActivity).Minutes()
	if elapsed < 0 {
		elapsed = 0
	}

	strength := math.Exp(-elapsed / calculateHalfLife(intervalMinutes, phase, params))

	if math.IsNaN(strength) || strength < 0 {
		return 0
	}
	if strength > 1 {
		return 1
	}
	return strength
}
