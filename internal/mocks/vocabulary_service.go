package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service/vocabulary"
)

// MockVocabularyService implements vocabulary.Service for handler tests.
// Each method delegates to its function field when set and otherwise
// returns zero values.
type MockVocabularyService struct {
	SaveFn    func(ctx context.Context, userID string, req vocabulary.SaveRequest) (*domain.SavedVocabulary, error)
	ListFn    func(ctx context.Context, userID string, dueOnly bool) ([]vocabulary.Entry, error)
	ReviewFn  func(ctx context.Context, userID string, vocabularyID uuid.UUID, quality domain.Quality) (*vocabulary.ReviewResult, error)
	DeleteFn  func(ctx context.Context, userID string, vocabularyID uuid.UUID) error
	IsSavedFn func(ctx context.Context, userID string, word string) (bool, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ vocabulary.Service = (*MockVocabularyService)(nil)

func (m *MockVocabularyService) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockVocabularyService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Save implements vocabulary.Service.
func (m *MockVocabularyService) Save(
	ctx context.Context,
	userID string,
	req vocabulary.SaveRequest,
) (*domain.SavedVocabulary, error) {
	m.record("Save")
	if m.SaveFn != nil {
		return m.SaveFn(ctx, userID, req)
	}
	return nil, nil
}

// List implements vocabulary.Service.
func (m *MockVocabularyService) List(ctx context.Context, userID string, dueOnly bool) ([]vocabulary.Entry, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, dueOnly)
	}
	return nil, nil
}

// Review implements vocabulary.Service.
func (m *MockVocabularyService) Review(
	ctx context.Context,
	userID string,
	vocabularyID uuid.UUID,
	quality domain.Quality,
) (*vocabulary.ReviewResult, error) {
	m.record("Review")
	if m.ReviewFn != nil {
		return m.ReviewFn(ctx, userID, vocabularyID, quality)
	}
	return nil, nil
}

// Delete implements vocabulary.Service.
func (m *MockVocabularyService) Delete(ctx context.Context, userID string, vocabularyID uuid.UUID) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, vocabularyID)
	}
	return nil
}

// IsSaved implements vocabulary.Service.
func (m *MockVocabularyService) IsSaved(ctx context.Context, userID string, word string) (bool, error) {
	m.record("IsSaved")
	if m.IsSavedFn != nil {
		return m.IsSavedFn(ctx, userID, word)
	}
	return false, nil
}
