package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

type dailyKey struct {
	userID string
	date   string
}

func newDailyKey(userID string, date time.Time) dailyKey {
	return dailyKey{userID: userID, date: domain.CalendarDate(date).Format(time.DateOnly)}
}

// MockProgressStore is an in-memory store.ProgressStore for testing.
type MockProgressStore struct {
	mu       sync.Mutex
	daily    map[dailyKey]domain.DailyStat
	progress map[string]domain.ProgressSummary

	IncrementErr      error
	GetDailyErr       error
	ListDailyErr      error
	GetProgressErr    error
	ProgressUpdateErr error

	// Call tracking
	IncrementCalls int
	UpdateCalls    int
}

// NewMockProgressStore creates an empty store.
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		daily:    make(map[dailyKey]domain.DailyStat),
		progress: make(map[string]domain.ProgressSummary),
	}
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// IncrementDailyStat implements store.ProgressStore.
func (m *MockProgressStore) IncrementDailyStat(ctx context.Context, delta domain.DailyStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IncrementCalls++
	if m.IncrementErr != nil {
		return m.IncrementErr
	}

	key := newDailyKey(delta.UserID, delta.Date)
	stat, ok := m.daily[key]
	if !ok {
		stat = domain.DailyStat{UserID: delta.UserID, Date: domain.CalendarDate(delta.Date)}
	}
	stat.WordsLearned += delta.WordsLearned
	stat.WordsReviewed += delta.WordsReviewed
	stat.CorrectCount += delta.CorrectCount
	stat.IncorrectCount += delta.IncorrectCount
	stat.StudyTimeMinutes += delta.StudyTimeMinutes
	m.daily[key] = stat
	return nil
}

// GetDailyStat implements store.ProgressStore.
func (m *MockProgressStore) GetDailyStat(ctx context.Context, userID string, date time.Time) (*domain.DailyStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetDailyErr != nil {
		return nil, m.GetDailyErr
	}

	stat, ok := m.daily[newDailyKey(userID, date)]
	if !ok {
		return nil, store.ErrDailyStatNotFound
	}
	return &stat, nil
}

// ListDailyStats implements store.ProgressStore.
func (m *MockProgressStore) ListDailyStats(ctx context.Context, userID string, since time.Time) ([]domain.DailyStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListDailyErr != nil {
		return nil, m.ListDailyErr
	}

	since = domain.CalendarDate(since)
	stats := make([]domain.DailyStat, 0)
	for key, stat := range m.daily {
		if key.userID == userID && !stat.Date.Before(since) {
			stats = append(stats, stat)
		}
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date.After(stats[j].Date)
	})
	return stats, nil
}

// GetProgress implements store.ProgressStore.
func (m *MockProgressStore) GetProgress(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetProgressErr != nil {
		return nil, m.GetProgressErr
	}

	summary, ok := m.progress[userID]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	return &summary, nil
}

// GetProgressForUpdate implements store.ProgressStore.
func (m *MockProgressStore) GetProgressForUpdate(
	ctx context.Context,
	userID string,
	now time.Time,
) (*domain.ProgressSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetProgressErr != nil {
		return nil, m.GetProgressErr
	}

	summary, ok := m.progress[userID]
	if !ok {
		summary = domain.ProgressSummary{UserID: userID, CreatedAt: now}
		m.progress[userID] = summary
	}
	return &summary, nil
}

// UpdateProgress implements store.ProgressStore.
func (m *MockProgressStore) UpdateProgress(ctx context.Context, summary *domain.ProgressSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.ProgressUpdateErr != nil {
		return m.ProgressUpdateErr
	}

	if _, ok := m.progress[summary.UserID]; !ok {
		return store.ErrProgressNotFound
	}
	m.progress[summary.UserID] = *summary
	return nil
}

// WithTx implements store.ProgressStore and returns the mock itself.
func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

// PutProgress stores summary directly.
func (m *MockProgressStore) PutProgress(summary domain.ProgressSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[summary.UserID] = summary
}
