package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
)

// VocabularyStore persists the shared catalog and each user's schedule for
// the items they saved.
type VocabularyStore interface {
	// UpsertOnFirstSave stores item in the catalog unless an item with the
	// same normalized word already exists, then associates it with the user
	// described by state. An existing association is reset to state.
	// Returns the catalog item actually stored and the saved schedule.
	UpsertOnFirstSave(
		ctx context.Context,
		item *domain.VocabularyItem,
		state *domain.ScheduleState,
	) (*domain.SavedVocabulary, error)

	// List returns the user's saved items. With dueOnly set, only items due
	// at now are returned, ordered by due time ascending; otherwise every
	// item is returned, newest association first.
	List(ctx context.Context, userID string, dueOnly bool, now time.Time) ([]domain.SavedVocabulary, error)

	// GetForUpdate loads one association and locks it for the rest of the
	// current transaction. Returns ErrVocabularyNotFound if it does not exist.
	GetForUpdate(ctx context.Context, userID string, vocabularyID uuid.UUID) (*domain.ScheduleState, error)

	// ApplyReview writes the scheduling fields of state back to its association.
	// Returns ErrVocabularyNotFound if the association does not exist.
	ApplyReview(ctx context.Context, state *domain.ScheduleState) error

	// Remove deletes the user's association. The catalog item remains.
	// Removing an association that does not exist is not an error.
	Remove(ctx context.Context, userID string, vocabularyID uuid.UUID) error

	// Exists reports whether the user saved a word with the same normalized form.
	Exists(ctx context.Context, userID string, word string) (bool, error)

	// CountDue returns the number of associations across all users that are
	// due at now.
	CountDue(ctx context.Context, now time.Time) (int, error)

	// WithTx returns a VocabularyStore that runs its queries on tx.
	WithTx(tx *sql.Tx) VocabularyStore
}
