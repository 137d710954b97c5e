package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const progressColumns = `
	user_id, total_words_learned, total_reviews, current_streak, longest_streak,
	last_study_date, created_at`

const dailyStatColumns = `
	user_id, date, words_learned, words_reviewed, correct_count, incorrect_count,
	study_time_minutes`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. If logger is nil, a default logger is used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// IncrementDailyStat implements store.ProgressStore.IncrementDailyStat
func (s *PostgresProgressStore) IncrementDailyStat(ctx context.Context, delta domain.DailyStat) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO learning_stats (` + dailyStatColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			words_learned = learning_stats.words_learned + EXCLUDED.words_learned,
			words_reviewed = learning_stats.words_reviewed + EXCLUDED.words_reviewed,
			correct_count = learning_stats.correct_count + EXCLUDED.correct_count,
			incorrect_count = learning_stats.incorrect_count + EXCLUDED.incorrect_count,
			study_time_minutes = learning_stats.study_time_minutes + EXCLUDED.study_time_minutes
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		delta.UserID,
		domain.CalendarDate(delta.Date),
		delta.WordsLearned,
		delta.WordsReviewed,
		delta.CorrectCount,
		delta.IncorrectCount,
		delta.StudyTimeMinutes,
	)
	if err != nil {
		log.Error("failed to increment daily stat",
			slog.String("error", err.Error()),
			slog.String("user_id", delta.UserID))
		return MapError(err)
	}

	return nil
}

func scanDailyStat(row rowScanner) (*domain.DailyStat, error) {
	var stat domain.DailyStat
	var date sql.NullTime

	if err := row.Scan(
		&stat.UserID,
		&date,
		&stat.WordsLearned,
		&stat.WordsReviewed,
		&stat.CorrectCount,
		&stat.IncorrectCount,
		&stat.StudyTimeMinutes,
	); err != nil {
		return nil, err
	}

	stat.Date = dateOnly(date)
	return &stat, nil
}

// GetDailyStat implements store.ProgressStore.GetDailyStat
func (s *PostgresProgressStore) GetDailyStat(
	ctx context.Context,
	userID string,
	date time.Time,
) (*domain.DailyStat, error) {
	query := `
		SELECT ` + dailyStatColumns + `
		FROM learning_stats
		WHERE user_id = $1 AND date = $2
	`
	stat, err := scanDailyStat(s.db.QueryRowContext(ctx, query, userID, domain.CalendarDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDailyStatNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get daily stat",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	return stat, nil
}

// ListDailyStats implements store.ProgressStore.ListDailyStats
func (s *PostgresProgressStore) ListDailyStats(
	ctx context.Context,
	userID string,
	since time.Time,
) ([]domain.DailyStat, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + dailyStatColumns + `
		FROM learning_stats
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, domain.CalendarDate(since))
	if err != nil {
		log.Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := make([]domain.DailyStat, 0)
	for rows.Next() {
		stat, err := scanDailyStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *stat)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return stats, nil
}

func scanProgress(row rowScanner) (*domain.ProgressSummary, error) {
	var summary domain.ProgressSummary
	var lastStudy sql.NullTime

	if err := row.Scan(
		&summary.UserID,
		&summary.TotalWordsLearned,
		&summary.TotalReviews,
		&summary.CurrentStreak,
		&summary.LongestStreak,
		&lastStudy,
		&summary.CreatedAt,
	); err != nil {
		return nil, err
	}

	summary.LastStudyDate = dateOnly(lastStudy)
	summary.CreatedAt = summary.CreatedAt.UTC()
	return &summary, nil
}

// GetProgress implements store.ProgressStore.GetProgress
func (s *PostgresProgressStore) GetProgress(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1`

	summary, err := scanProgress(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	return summary, nil
}

// GetProgressForUpdate implements store.ProgressStore.GetProgressForUpdate
func (s *PostgresProgressStore) GetProgressForUpdate(
	ctx context.Context,
	userID string,
	now time.Time,
) (*domain.ProgressSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, now)
	if err != nil {
		log.Error("failed to create progress summary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}

	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1 FOR UPDATE`

	summary, err := scanProgress(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to lock progress summary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	return summary, nil
}

// UpdateProgress implements store.ProgressStore.UpdateProgress
func (s *PostgresProgressStore) UpdateProgress(ctx context.Context, summary *domain.ProgressSummary) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE user_progress SET
			total_words_learned = $2,
			total_reviews = $3,
			current_streak = $4,
			longest_streak = $5,
			last_study_date = $6
		WHERE user_id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		summary.UserID,
		summary.TotalWordsLearned,
		summary.TotalReviews,
		summary.CurrentStreak,
		summary.LongestStreak,
		nullTime(summary.LastStudyDate),
	)
	if err != nil {
		log.Error("failed to update progress",
			slog.String("error", err.Error()),
			slog.String("user_id", summary.UserID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrProgressNotFound)
}
