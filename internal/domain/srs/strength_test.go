package srs

import (
	"math"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateHalfLife(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		interval int
		phase    domain.Phase
		expected float64
	}{
		{name: "fresh item", interval: 20, phase: learning(t, 0), expected: 15},
		{name: "reset item below first rung", interval: 10, phase: learning(t, 0), expected: 15},
		{name: "second rung", interval: 60, phase: learning(t, 1), expected: 24},
		{name: "floor for short intervals", interval: 20, phase: learning(t, 1), expected: 10},
		{name: "graduated item", interval: 2880, phase: domain.NewReviewPhase(0), expected: 1152},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, calculateHalfLife(tc.interval, tc.phase, params), 1e-9)
		})
	}
}

func TestCalculateStrength(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		lastActivity time.Time
		interval     int
		phase        domain.Phase
		expected     float64
	}{
		{
			name:         "no elapsed time is full strength",
			lastActivity: now,
			interval:     20,
			phase:        learning(t, 0),
			expected:     1,
		},
		{
			name:         "zero activity time falls back to now",
			lastActivity: time.Time{},
			interval:     2880,
			phase:        domain.NewReviewPhase(0),
			expected:     1,
		},
		{
			name:         "future activity from clock skew is full strength",
			lastActivity: now.Add(10 * time.Minute),
			interval:     60,
			phase:        learning(t, 1),
			expected:     1,
		},
		{
			name:         "one half-life elapsed on a fresh item",
			lastActivity: now.Add(-15 * time.Minute),
			interval:     20,
			phase:        learning(t, 0),
			expected:     math.Exp(-1),
		},
		{
			name:         "graduated item decays slowly",
			lastActivity: now.Add(-1152 * time.Minute),
			interval:     2880,
			phase:        domain.NewReviewPhase(0),
			expected:     math.Exp(-1),
		},
		{
			name:         "very old activity approaches zero",
			lastActivity: now.AddDate(-5, 0, 0),
			interval:     20,
			phase:        learning(t, 0),
			expected:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateStrength(tc.lastActivity, tc.interval, tc.phase, now, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestCalculateStrengthMonotone(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	last := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	prev := 1.0
	for minutes := 0; minutes <= 10000; minutes += 250 {
		got := calculateStrength(last, 540, learning(t, 2), last.Add(time.Duration(minutes)*time.Minute), params)
		assert.LessOrEqual(t, got, prev, "strength must not increase with elapsed time")
		prev = got
	}
}
