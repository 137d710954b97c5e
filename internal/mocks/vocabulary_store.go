package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

type associationKey struct {
	userID       string
	vocabularyID uuid.UUID
}

// MockVocabularyStore is an in-memory store.VocabularyStore for testing.
// Setting one of the Err fields makes the matching method fail.
type MockVocabularyStore struct {
	mu     sync.Mutex
	items  map[string]domain.VocabularyItem
	states map[associationKey]domain.ScheduleState

	UpsertErr      error
	ListErr        error
	GetErr         error
	ApplyReviewErr error
	RemoveErr      error
	ExistsErr      error
	CountDueErr    error

	// Call tracking
	ApplyReviewCalls int
	RemoveCalls      int
	WithTxCalls      int
}

// NewMockVocabularyStore creates an empty store.
func NewMockVocabularyStore() *MockVocabularyStore {
	return &MockVocabularyStore{
		items:  make(map[string]domain.VocabularyItem),
		states: make(map[associationKey]domain.ScheduleState),
	}
}

var _ store.VocabularyStore = (*MockVocabularyStore)(nil)

// UpsertOnFirstSave implements store.VocabularyStore.
func (m *MockVocabularyStore) UpsertOnFirstSave(
	ctx context.Context,
	item *domain.VocabularyItem,
	state *domain.ScheduleState,
) (*domain.SavedVocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	stored, ok := m.items[item.Key()]
	if !ok {
		stored = *item
		m.items[item.Key()] = stored
	}

	saved := *state
	saved.VocabularyID = stored.ID
	m.states[associationKey{userID: saved.UserID, vocabularyID: stored.ID}] = saved

	return &domain.SavedVocabulary{Item: stored, State: saved}, nil
}

// List implements store.VocabularyStore.
func (m *MockVocabularyStore) List(
	ctx context.Context,
	userID string,
	dueOnly bool,
	now time.Time,
) ([]domain.SavedVocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	result := make([]domain.SavedVocabulary, 0)
	for key, state := range m.states {
		if key.userID != userID {
			continue
		}
		if dueOnly && !state.IsDue(now) {
			continue
		}
		result = append(result, domain.SavedVocabulary{Item: m.itemByID(key.vocabularyID), State: state})
	}

	if dueOnly {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].State.DueAt.Before(result[j].State.DueAt)
		})
	} else {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].State.CreatedAt.After(result[j].State.CreatedAt)
		})
	}

	return result, nil
}

// GetForUpdate implements store.VocabularyStore.
func (m *MockVocabularyStore) GetForUpdate(
	ctx context.Context,
	userID string,
	vocabularyID uuid.UUID,
) (*domain.ScheduleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	state, ok := m.states[associationKey{userID: userID, vocabularyID: vocabularyID}]
	if !ok {
		return nil, store.ErrVocabularyNotFound
	}
	return &state, nil
}

// ApplyReview implements store.VocabularyStore.
func (m *MockVocabularyStore) ApplyReview(ctx context.Context, state *domain.ScheduleState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ApplyReviewCalls++
	if m.ApplyReviewErr != nil {
		return m.ApplyReviewErr
	}

	key := associationKey{userID: state.UserID, vocabularyID: state.VocabularyID}
	current, ok := m.states[key]
	if !ok {
		return store.ErrVocabularyNotFound
	}

	updated := *state
	updated.Source = current.Source
	updated.CreatedAt = current.CreatedAt
	m.states[key] = updated
	return nil
}

// Remove implements store.VocabularyStore.
func (m *MockVocabularyStore) Remove(ctx context.Context, userID string, vocabularyID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemoveCalls++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}

	delete(m.states, associationKey{userID: userID, vocabularyID: vocabularyID})
	return nil
}

// Exists implements store.VocabularyStore.
func (m *MockVocabularyStore) Exists(ctx context.Context, userID string, word string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}

	item, ok := m.items[domain.NormalizeWord(word)]
	if !ok {
		return false, nil
	}
	_, ok = m.states[associationKey{userID: userID, vocabularyID: item.ID}]
	return ok, nil
}

// CountDue implements store.VocabularyStore.
func (m *MockVocabularyStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CountDueErr != nil {
		return 0, m.CountDueErr
	}

	count := 0
	for _, state := range m.states {
		if state.IsDue(now) {
			count++
		}
	}
	return count, nil
}

// WithTx implements store.VocabularyStore. The mock has no transactions and
// returns itself.
func (m *MockVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WithTxCalls++
	return m
}

// PutState stores item and state directly, bypassing the save path.
func (m *MockVocabularyStore) PutState(item domain.VocabularyItem, state domain.ScheduleState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.Key()] = item
	state.VocabularyID = item.ID
	m.states[associationKey{userID: state.UserID, vocabularyID: item.ID}] = state
}

// State returns the stored state for one association.
func (m *MockVocabularyStore) State(userID string, vocabularyID uuid.UUID) (domain.ScheduleState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[associationKey{userID: userID, vocabularyID: vocabularyID}]
	return state, ok
}

func (m *MockVocabularyStore) itemByID(id uuid.UUID) domain.VocabularyItem {
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return domain.VocabularyItem{ID: id}
}
