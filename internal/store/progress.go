package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// ProgressStore persists daily study counters and per-user progress summaries.
type ProgressStore interface {
	// IncrementDailyStat adds the counters of delta to the row for
	// delta.UserID and delta.Date, creating the row when absent.
	IncrementDailyStat(ctx context.Context, delta domain.DailyStat) error

	// GetDailyStat returns the counters for one user and day.
	// Returns ErrDailyStatNotFound if the user did not study that day.
	GetDailyStat(ctx context.Context, userID string, date time.Time) (*domain.DailyStat, error)

	// ListDailyStats returns the user's rows dated on or after since,
	// most recent first.
	ListDailyStats(ctx context.Context, userID string, since time.Time) ([]domain.DailyStat, error)

	// GetProgress returns the user's summary.
	// Returns ErrProgressNotFound if the user never studied.
	GetProgress(ctx context.Context, userID string) (*domain.ProgressSummary, error)

	// GetProgressForUpdate returns the user's summary locked for the rest of
	// the current transaction, creating an empty summary first if needed.
	GetProgressForUpdate(ctx context.Context, userID string, now time.Time) (*domain.ProgressSummary, error)

	// UpdateProgress overwrites the totals and streak fields of the summary.
	// Returns ErrProgressNotFound if the summary does not exist.
	UpdateProgress(ctx context.Context, summary *domain.ProgressSummary) error

	// WithTx returns a ProgressStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ProgressStore
}
