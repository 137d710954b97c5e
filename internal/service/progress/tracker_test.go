package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/mocks"
	"github.com/phrazzld/scry-vocab/internal/service/progress"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTracker(loc *time.Location) (*progress.Tracker, *mocks.MockProgressStore, *mocks.MockTransactor) {
	progressStore := mocks.NewMockProgressStore()
	transactor := &mocks.MockTransactor{}
	return progress.NewTracker(progressStore, transactor, loc, nil), progressStore, transactor
}

func TestNewTrackerPanicsOnNilDependencies(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { progress.NewTracker(nil, &mocks.MockTransactor{}, nil, nil) })
	assert.Panics(t, func() { progress.NewTracker(mocks.NewMockProgressStore(), nil, nil, nil) })
}

func TestTrackerCountsEvents(t *testing.T) {
	t.Parallel()
	tracker, progressStore, transactor := newTracker(nil)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	vocabID := uuid.New()

	require.NoError(t, tracker.HandleEvent(ctx, events.NewWordLearnedEvent(testUser, vocabID, at)))
	require.NoError(t, tracker.HandleEvent(ctx, events.NewReviewRecordedEvent(testUser, vocabID, true, at.Add(time.Hour))))
	require.NoError(t, tracker.HandleEvent(ctx, events.NewReviewRecordedEvent(testUser, vocabID, false, at.Add(2*time.Hour))))
	assert.Equal(t, 3, transactor.Calls())

	stat, err := progressStore.GetDailyStat(ctx, testUser, date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, stat.WordsLearned)
	assert.Equal(t, 2, stat.WordsReviewed)
	assert.Equal(t, 1, stat.CorrectCount)
	assert.Equal(t, 1, stat.IncorrectCount)

	summary, err := progressStore.GetProgress(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalWordsLearned)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, 1, summary.CurrentStreak, "same-day activity does not extend the streak")
	assert.Equal(t, 1, summary.LongestStreak)
	assert.Equal(t, date(2024, 6, 1), summary.LastStudyDate)
}

func TestTrackerStreaks(t *testing.T) {
	t.Parallel()
	tracker, progressStore, _ := newTracker(nil)
	ctx := context.Background()
	vocabID := uuid.New()

	days := []struct {
		at              time.Time
		expectedCurrent int
		expectedLongest int
	}{
		{at: time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC), expectedCurrent: 1, expectedLongest: 1},
		{at: time.Date(2024, 6, 2, 7, 0, 0, 0, time.UTC), expectedCurrent: 2, expectedLongest: 2},
		{at: time.Date(2024, 6, 3, 23, 59, 0, 0, time.UTC), expectedCurrent: 3, expectedLongest: 3},
		{at: time.Date(2024, 6, 6, 12, 0, 0, 0, time.UTC), expectedCurrent: 1, expectedLongest: 3},
		{at: time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC), expectedCurrent: 2, expectedLongest: 3},
	}

	for _, day := range days {
		require.NoError(t, tracker.HandleEvent(ctx, events.NewReviewRecordedEvent(testUser, vocabID, true, day.at)))

		summary, err := progressStore.GetProgress(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, day.expectedCurrent, summary.CurrentStreak, "current streak on %s", day.at)
		assert.Equal(t, day.expectedLongest, summary.LongestStreak, "longest streak on %s", day.at)
	}
}

func TestTrackerUsesConfiguredCalendar(t *testing.T) {
	t.Parallel()
	tracker, progressStore, _ := newTracker(time.FixedZone("UTC-5", -5*60*60))
	ctx := context.Background()

	// 02:00 UTC on June 2nd is still June 1st five hours west.
	at := time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)
	require.NoError(t, tracker.HandleEvent(ctx, events.NewWordLearnedEvent(testUser, uuid.New(), at)))

	_, err := progressStore.GetDailyStat(ctx, testUser, date(2024, 6, 1))
	assert.NoError(t, err)
	_, err = progressStore.GetDailyStat(ctx, testUser, date(2024, 6, 2))
	assert.ErrorIs(t, err, store.ErrDailyStatNotFound)

	summary, err := progressStore.GetProgress(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 1), summary.LastStudyDate)
}

func TestTrackerIgnoresUnknownEvents(t *testing.T) {
	t.Parallel()
	tracker, progressStore, transactor := newTracker(nil)

	event := events.NewWordLearnedEvent(testUser, uuid.New(), time.Now())
	event.Type = "video_watched"

	require.NoError(t, tracker.HandleEvent(context.Background(), event))
	assert.Equal(t, 0, transactor.Calls())
	assert.Equal(t, 0, progressStore.IncrementCalls)
}

func TestTrackerSurfacesStoreFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		setup func(*mocks.MockProgressStore, *mocks.MockTransactor)
	}{
		{
			name: "increment fails",
			setup: func(s *mocks.MockProgressStore, _ *mocks.MockTransactor) {
				s.IncrementErr = errors.New("timeout")
			},
		},
		{
			name: "summary update fails",
			setup: func(s *mocks.MockProgressStore, _ *mocks.MockTransactor) {
				s.ProgressUpdateErr = errors.New("timeout")
			},
		},
		{
			name: "transaction cannot start",
			setup: func(_ *mocks.MockProgressStore, tx *mocks.MockTransactor) {
				tx.BeginErr = errors.New("pool exhausted")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tracker, progressStore, transactor := newTracker(nil)
			tc.setup(progressStore, transactor)

			err := tracker.HandleEvent(context.Background(),
				events.NewWordLearnedEvent(testUser, uuid.New(), time.Now()))
			assert.Error(t, err)
		})
	}
}

func TestTrackerAsEmitterHandler(t *testing.T) {
	t.Parallel()
	tracker, progressStore, _ := newTracker(nil)

	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(tracker)

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, emitter.EmitEvent(context.Background(), events.NewWordLearnedEvent(testUser, uuid.New(), at)))

	stat, err := progressStore.GetDailyStat(context.Background(), testUser, at)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.WordsLearned)

	_, err = progressStore.GetDailyStat(context.Background(), testUser, at.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, store.ErrDailyStatNotFound)

	summary, err := progressStore.GetProgress(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressSummary{
		UserID:            testUser,
		TotalWordsLearned: 1,
		CurrentStreak:     1,
		LongestStreak:     1,
		LastStudyDate:     date(2024, 6, 1),
		CreatedAt:         at,
	}, *summary)
}
