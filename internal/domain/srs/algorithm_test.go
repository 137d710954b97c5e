package srs

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learning(t *testing.T, step int) domain.Phase {
	t.Helper()
	p, err := domain.NewLearningPhase(step)
	require.NoError(t, err)
	return p
}

func newTestState(phase domain.Phase, intervalDays, intervalMinutes int, ef float64) *domain.ScheduleState {
	return &domain.ScheduleState{
		UserID:          "user-1",
		VocabularyID:    uuid.New(),
		Phase:           phase,
		EaseFactor:      ef,
		IntervalDays:    intervalDays,
		IntervalMinutes: intervalMinutes,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculateReviewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name         string
		days         int
		ef           float64
		quality      domain.Quality
		expectedDays int
		expectedEF   float64
	}{
		{
			name:         "Good multiplies by ease factor",
			days:         10,
			ef:           2.0,
			quality:      domain.QualityGood,
			expectedDays: 20,
			expectedEF:   2.0,
		},
		{
			name:         "Good floors the product",
			days:         3,
			ef:           2.5,
			quality:      domain.QualityGood,
			expectedDays: 7, // floor(7.5)
			expectedEF:   2.5,
		},
		{
			name:         "Good never drops below two days",
			days:         0,
			ef:           1.3,
			quality:      domain.QualityGood,
			expectedDays: 2,
			expectedEF:   1.3,
		},
		{
			name:         "Easy applies bonus and raises ease",
			days:         10,
			ef:           2.5,
			quality:      domain.QualityEasy,
			expectedDays: 32, // floor(32.5)
			expectedEF:   2.6,
		},
		{
			name:         "Easy never drops below three days",
			days:         1,
			ef:           1.3,
			quality:      domain.QualityEasy,
			expectedDays: 3,
			expectedEF:   1.4,
		},
		{
			name:         "Easy ease capped at maximum",
			days:         4,
			ef:           3.0,
			quality:      domain.QualityEasy,
			expectedDays: 15, // floor(15.6)
			expectedEF:   3.0,
		},
		{
			name:         "Good clamps an out-of-range ease",
			days:         10,
			ef:           3.5,
			quality:      domain.QualityGood,
			expectedDays: 35,
			expectedEF:   3.0,
		},
		{
			name:         "Good capped at maximum interval",
			days:         36000,
			ef:           2.5,
			quality:      domain.QualityGood,
			expectedDays: 36500,
			expectedEF:   2.5,
		},
		{
			name:         "Easy capped at maximum interval",
			days:         30000,
			ef:           3.0,
			quality:      domain.QualityEasy,
			expectedDays: 36500,
			expectedEF:   3.0,
		},
		{
			name:         "Oversized stored interval capped",
			days:         math.MaxInt32,
			ef:           2.5,
			quality:      domain.QualityEasy,
			expectedDays: 36500,
			expectedEF:   2.6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			days, ef := calculateReviewInterval(tc.days, tc.ef, tc.quality, params)
			assert.Equal(t, tc.expectedDays, days)
			assert.InDelta(t, tc.expectedEF, ef, 1e-9)
		})
	}
}

func TestCalculateNextStateLearningLadder(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		step            int
		expectedPhase   domain.Phase
		expectedMinutes int
		expectedDays    int
	}{
		{step: 0, expectedPhase: learning(t, 1), expectedMinutes: 60, expectedDays: 0},
		{step: 1, expectedPhase: learning(t, 2), expectedMinutes: 540, expectedDays: 0},
		{step: 2, expectedPhase: learning(t, 3), expectedMinutes: 1440, expectedDays: 0},
		{step: 3, expectedPhase: domain.NewReviewPhase(0), expectedMinutes: 2880, expectedDays: 2},
	}

	for _, tc := range testCases {
		for _, q := range []domain.Quality{domain.QualityGood, domain.QualityEasy} {
			state := newTestState(learning(t, tc.step), 0, params.LearningIntervals[tc.step], 2.2)

			next := calculateNextState(state, q, now, params)

			assert.Equal(t, tc.expectedPhase, next.Phase, "step %d quality %s", tc.step, q)
			assert.Equal(t, tc.expectedMinutes, next.IntervalMinutes)
			assert.Equal(t, tc.expectedDays, next.IntervalDays)
			assert.Equal(t, 2.2, next.EaseFactor, "ease unchanged while learning")
			assert.Equal(t, now.Add(time.Duration(tc.expectedMinutes)*time.Minute), next.DueAt)
		}
	}
}

func TestCalculateNextStateLapse(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		state          *domain.ScheduleState
		quality        domain.Quality
		expectedEF     float64
		expectedLapses int
	}{
		{
			name:           "Forgot in review counts a lapse",
			state:          newTestState(domain.NewReviewPhase(3), 20, 20*1440, 2.5),
			quality:        domain.QualityForgot,
			expectedEF:     2.3,
			expectedLapses: 1,
		},
		{
			name:           "Hard in review is treated as forgot",
			state:          newTestState(domain.NewReviewPhase(0), 2, 2880, 2.0),
			quality:        domain.QualityHard,
			expectedEF:     1.8,
			expectedLapses: 1,
		},
		{
			name:           "Forgot while learning does not count a lapse",
			state:          newTestState(learning(t, 2), 0, 540, 2.5),
			quality:        domain.QualityForgot,
			expectedEF:     2.3,
			expectedLapses: 0,
		},
		{
			name:           "Ease floored at minimum",
			state:          newTestState(domain.NewReviewPhase(1), 5, 5*1440, 1.4),
			quality:        domain.QualityForgot,
			expectedEF:     1.3,
			expectedLapses: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			next := calculateNextState(tc.state, tc.quality, now, params)

			assert.Equal(t, domain.Phase{}, next.Phase)
			assert.Equal(t, 20, next.IntervalMinutes)
			assert.Equal(t, 0, next.IntervalDays)
			assert.InDelta(t, tc.expectedEF, next.EaseFactor, 1e-9)
			assert.Equal(t, tc.expectedLapses, next.Lapses)
			assert.Equal(t, now.Add(20*time.Minute), next.DueAt)
		})
	}
}

func TestCalculateNextStateBookkeeping(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 23, 50, 0, 0, time.UTC)

	state := newTestState(learning(t, 0), 0, 20, 2.5)
	state.ReviewCount = 4

	next := calculateNextState(state, domain.QualityGood, now, params)

	assert.Equal(t, 5, next.ReviewCount)
	assert.Equal(t, now, next.LastReviewedAt)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), next.DueDate, "due date follows due_at across midnight")

	// Input is not modified
	assert.Equal(t, 4, state.ReviewCount)
	assert.True(t, state.LastReviewedAt.IsZero())
	assert.Equal(t, learning(t, 0), state.Phase)
}

func TestCalculateNextStateReviewCounter(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	state := newTestState(domain.NewReviewPhase(7), 10, 14400, 2.0)
	next := calculateNextState(state, domain.QualityGood, now, params)

	assert.Equal(t, domain.PhaseReview, next.Phase.Kind())
	assert.Equal(t, 8, next.Phase.Step())
	assert.Equal(t, 20, next.IntervalDays)
	assert.Equal(t, 20*1440, next.IntervalMinutes)
}

func TestClassifyTransition(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TransitionRelearnReset, ClassifyTransition(learning(t, 2), domain.QualityHard))
	assert.Equal(t, TransitionLapsed, ClassifyTransition(domain.NewReviewPhase(0), domain.QualityForgot))
	assert.Equal(t, TransitionLearningAdvanced, ClassifyTransition(learning(t, 0), domain.QualityGood))
	assert.Equal(t, TransitionGraduated, ClassifyTransition(learning(t, 3), domain.QualityEasy))
	assert.Equal(t, TransitionReviewExtended, ClassifyTransition(domain.NewReviewPhase(2), domain.QualityGood))
}
