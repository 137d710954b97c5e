package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/mocks"
	"github.com/phrazzld/scry-vocab/internal/service/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsNow = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

type statsFixture struct {
	svc           progress.StatsService
	progressStore *mocks.MockProgressStore
	vocabStore    *mocks.MockVocabularyStore
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	f := &statsFixture{
		progressStore: mocks.NewMockProgressStore(),
		vocabStore:    mocks.NewMockVocabularyStore(),
	}
	f.svc = progress.NewStatsService(f.progressStore, f.vocabStore, scheduler, nil,
		progress.WithStatsClock(func() time.Time { return statsNow }))
	return f
}

func (f *statsFixture) seed(t *testing.T, daysAgo, reviewed, correct int) {
	t.Helper()
	require.NoError(t, f.progressStore.IncrementDailyStat(context.Background(), domain.DailyStat{
		UserID:         testUser,
		Date:           domain.CalendarDate(statsNow).AddDate(0, 0, -daysAgo),
		WordsLearned:   1,
		WordsReviewed:  reviewed,
		CorrectCount:   correct,
		IncorrectCount: reviewed - correct,
	}))
}

func TestNewStatsServicePanicsOnNilDependencies(t *testing.T) {
	t.Parallel()
	scheduler, err := srs.NewDefaultService()
	require.NoError(t, err)

	assert.Panics(t, func() { progress.NewStatsService(nil, mocks.NewMockVocabularyStore(), scheduler, nil) })
	assert.Panics(t, func() { progress.NewStatsService(mocks.NewMockProgressStore(), nil, scheduler, nil) })
	assert.Panics(t, func() { progress.NewStatsService(mocks.NewMockProgressStore(), mocks.NewMockVocabularyStore(), nil, nil) })
}

func TestToday(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	ctx := context.Background()

	stat, err := f.svc.Today(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.DailyStat{UserID: testUser, Date: date(2024, 6, 10)}, *stat)

	f.seed(t, 0, 4, 3)
	stat, err = f.svc.Today(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 4, stat.WordsReviewed)
	assert.Equal(t, 3, stat.CorrectCount)

	_, err = f.svc.Today(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyUserID)

	f.progressStore.GetDailyErr = errors.New("timeout")
	_, err = f.svc.Today(ctx, testUser)
	var statsErr *progress.StatsError
	require.ErrorAs(t, err, &statsErr)
	assert.Equal(t, "today", statsErr.Operation)
}

func TestDaily(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	for _, daysAgo := range []int{0, 3, 7, 8, 400} {
		f.seed(t, daysAgo, 1, 1)
	}

	testCases := []struct {
		name     string
		days     int
		expected []time.Time
	}{
		{
			name:     "one week includes its first day",
			days:     7,
			expected: []time.Time{date(2024, 6, 10), date(2024, 6, 7), date(2024, 6, 3)},
		},
		{
			name:     "non-positive defaults to a week",
			days:     0,
			expected: []time.Time{date(2024, 6, 10), date(2024, 6, 7), date(2024, 6, 3)},
		},
		{
			name:     "single day",
			days:     1,
			expected: []time.Time{date(2024, 6, 10)},
		},
		{
			name:     "window capped at a year",
			days:     1000,
			expected: []time.Time{date(2024, 6, 10), date(2024, 6, 7), date(2024, 6, 3), date(2024, 6, 2)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stats, err := f.svc.Daily(context.Background(), testUser, tc.days)
			require.NoError(t, err)

			dates := make([]time.Time, 0, len(stats))
			for _, s := range stats {
				dates = append(dates, s.Date)
			}
			assert.Equal(t, tc.expected, dates)
		})
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	ctx := context.Background()

	summary, err := f.svc.Progress(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressSummary{UserID: testUser}, *summary)

	f.progressStore.PutProgress(domain.ProgressSummary{
		UserID:        testUser,
		TotalReviews:  12,
		CurrentStreak: 3,
		LongestStreak: 5,
		LastStudyDate: date(2024, 6, 10),
	})
	summary, err = f.svc.Progress(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 12, summary.TotalReviews)
	assert.Equal(t, 5, summary.LongestStreak)
}

func TestOverview(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	f.seed(t, 0, 2, 2)
	f.seed(t, 2, 2, 1)
	f.seed(t, 9, 10, 0)
	f.progressStore.PutProgress(domain.ProgressSummary{UserID: testUser, CurrentStreak: 1, LongestStreak: 4})

	overview, err := f.svc.Overview(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, 2, overview.Today.WordsReviewed)
	assert.Equal(t, 4, overview.Progress.LongestStreak)
	assert.Len(t, overview.WeeklyStats, 2)
	assert.InDelta(t, 75.0, overview.AccuracyRate, 1e-9)

	empty := newStatsFixture(t)
	overview, err = empty.svc.Overview(context.Background(), testUser)
	require.NoError(t, err)
	assert.Empty(t, overview.WeeklyStats)
	assert.Equal(t, 0.0, overview.AccuracyRate)
	assert.Equal(t, testUser, overview.Progress.UserID)
}

func TestMemoryDistribution(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)

	// A graduated item decays with a half-life of 0.4 * 2880 = 1152 minutes.
	halfLife := 1152 * time.Minute
	elapsed := []time.Duration{
		0,                // strength 1.0
		halfLife / 2,     // ~0.61
		halfLife * 3 / 2, // ~0.22
		halfLife * 3,     // ~0.05
		halfLife * 10,    // ~0.00
	}
	for i, e := range elapsed {
		item := domain.VocabularyItem{ID: uuid.New(), Word: string(rune('a' + i)), Meaning: "m"}
		f.vocabStore.PutState(item, domain.ScheduleState{
			UserID:          testUser,
			Phase:           domain.NewReviewPhase(0),
			EaseFactor:      domain.DefaultEaseFactor,
			IntervalDays:    2,
			IntervalMinutes: 2880,
			DueAt:           statsNow.AddDate(0, 0, 2),
			LastReviewedAt:  statsNow.Add(-e),
			CreatedAt:       statsNow.AddDate(0, -1, 0),
		})
	}

	dist, err := f.svc.MemoryDistribution(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.MemoryDistribution{Strong: 1, Good: 1, Weak: 1, Critical: 2, Total: 5}, *dist)

	empty, err := f.svc.MemoryDistribution(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.MemoryDistribution{}, *empty)

	f.vocabStore.ListErr = errors.New("timeout")
	_, err = f.svc.MemoryDistribution(context.Background(), testUser)
	var statsErr *progress.StatsError
	assert.ErrorAs(t, err, &statsErr)
}

func TestAccuracyRate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		stats    []domain.DailyStat
		expected float64
	}{
		{name: "no stats", stats: nil, expected: 0},
		{name: "no reviews", stats: []domain.DailyStat{{WordsLearned: 3}}, expected: 0},
		{name: "all correct", stats: []domain.DailyStat{{WordsReviewed: 4, CorrectCount: 4}}, expected: 100},
		{
			name: "summed across days",
			stats: []domain.DailyStat{
				{WordsReviewed: 3, CorrectCount: 1},
				{WordsReviewed: 5, CorrectCount: 5},
			},
			expected: 75,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, progress.AccuracyRate(tc.stats), 1e-9)
		})
	}
}
