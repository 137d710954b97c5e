package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/metrics"
	"github.com/phrazzld/scry-vocab/internal/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCounter struct {
	calls atomic.Int32
	count int
	err   error
}

func (c *countingCounter) CountDue(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	return c.count, c.err
}

// The tests below are not parallel: they assert on the process-wide gauge.

func TestRunOnceCountsDueItems(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	vocabStore := mocks.NewMockVocabularyStore()

	for i, due := range []time.Time{now.Add(-time.Hour), now, now.Add(time.Minute)} {
		item := domain.VocabularyItem{ID: uuid.New(), Word: string(rune('a' + i)), Meaning: "m"}
		vocabStore.PutState(item, domain.ScheduleState{UserID: "user-1", DueAt: due})
	}

	sweep := NewBacklogSweep(vocabStore, time.Minute, nil)
	sweep.clock = func() time.Time { return now }

	require.NoError(t, sweep.RunOnce(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DueItems))
}

func TestRunOnceKeepsGaugeOnError(t *testing.T) {
	metrics.DueItems.Set(42)
	counter := &countingCounter{err: errors.New("connection refused")}

	sweep := NewBacklogSweep(counter, time.Minute, nil)
	assert.Error(t, sweep.RunOnce(context.Background()))
	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.DueItems))
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	counter := &countingCounter{count: 7}
	sweep := NewBacklogSweep(counter, time.Hour, nil)

	require.NoError(t, sweep.Start(context.Background()))
	defer sweep.Stop()

	assert.Eventually(t, func() bool {
		return counter.calls.Load() >= 1 && testutil.ToFloat64(metrics.DueItems) == 7.0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartRejectsNonPositiveInterval(t *testing.T) {
	sweep := NewBacklogSweep(&countingCounter{}, 0, nil)
	assert.Error(t, sweep.Start(context.Background()))
}

func TestNewBacklogSweepPanicsOnNilCounter(t *testing.T) {
	assert.Panics(t, func() { NewBacklogSweep(nil, time.Minute, nil) })
}
