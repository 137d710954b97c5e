package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// dueCondition selects associations due at the instant bound to placeholder
// nowArg or, for rows that predate precise due times, on or before the
// calendar day bound to todayArg.
func dueCondition(nowArg, todayArg int) string {
	return fmt.Sprintf(`(
		(uv.due_at IS NOT NULL AND uv.due_at <= $%[1]d)
		OR (uv.due_at IS NULL AND (uv.due_date IS NULL OR uv.due_date <= $%[2]d))
	)`, nowArg, todayArg)
}

const savedColumns = `
	v.id, v.word, v.meaning, v.level, v.example, v.created_at,
	uv.user_id, uv.ease_factor, uv.interval_days, uv.interval_minutes,
	uv.due_date, uv.due_at, uv.review_count, uv.learning_step, uv.lapses,
	uv.source_video_id, uv.source_sentence, uv.created_at, uv.last_reviewed_at`

const stateColumns = `
	uv.user_id, uv.vocabulary_id, uv.ease_factor, uv.interval_days, uv.interval_minutes,
	uv.due_date, uv.due_at, uv.review_count, uv.learning_step, uv.lapses,
	uv.source_video_id, uv.source_sentence, uv.created_at, uv.last_reviewed_at`

// PostgresVocabularyStore implements the store.VocabularyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyStore interface. If logger is nil, a default logger is used.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

// WithTx implements store.VocabularyStore.WithTx
func (s *PostgresVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyStore {
	return &PostgresVocabularyStore{
		db:     tx,
		logger: s.logger,
	}
}

// UpsertOnFirstSave implements store.VocabularyStore.UpsertOnFirstSave
func (s *PostgresVocabularyStore) UpsertOnFirstSave(
	ctx context.Context,
	item *domain.VocabularyItem,
	state *domain.ScheduleState,
) (*domain.SavedVocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	stored, err := s.insertCatalogItem(ctx, item)
	if err != nil {
		log.Error("failed to store catalog item",
			slog.String("error", err.Error()),
			slog.String("word", item.Word))
		return nil, err
	}

	// The catalog may already hold the word under another ID.
	saved := *state
	saved.VocabularyID = stored.ID
	saved.LastReviewedAt = time.Time{}
	if err := saved.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO user_vocabulary (
			user_id, vocabulary_id, ease_factor, interval_days, interval_minutes,
			due_date, due_at, review_count, learning_step, lapses,
			source_video_id, source_sentence, created_at, last_reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULL)
		ON CONFLICT (user_id, vocabulary_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			interval_minutes = EXCLUDED.interval_minutes,
			due_date = EXCLUDED.due_date,
			due_at = EXCLUDED.due_at,
			review_count = EXCLUDED.review_count,
			learning_step = EXCLUDED.learning_step,
			lapses = EXCLUDED.lapses,
			source_video_id = EXCLUDED.source_video_id,
			source_sentence = EXCLUDED.source_sentence,
			created_at = EXCLUDED.created_at,
			last_reviewed_at = NULL
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		saved.UserID,
		saved.VocabularyID,
		saved.EaseFactor,
		saved.IntervalDays,
		saved.IntervalMinutes,
		nullTime(saved.DueDate),
		nullTime(saved.DueAt),
		saved.ReviewCount,
		saved.Phase.StoredStep(),
		saved.Lapses,
		nullString(saved.Source.VideoID),
		nullString(saved.Source.Sentence),
		saved.CreatedAt,
	)
	if err != nil {
		log.Error("failed to save user vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", saved.UserID),
			slog.String("vocabulary_id", saved.VocabularyID.String()))
		return nil, MapError(err)
	}

	log.Debug("vocabulary saved",
		slog.String("user_id", saved.UserID),
		slog.String("vocabulary_id", stored.ID.String()))

	return &domain.SavedVocabulary{Item: *stored, State: saved}, nil
}

// insertCatalogItem inserts item unless its normalized word is already in
// the catalog, and returns whichever row is stored.
func (s *PostgresVocabularyStore) insertCatalogItem(
	ctx context.Context,
	item *domain.VocabularyItem,
) (*domain.VocabularyItem, error) {
	query := `
		WITH inserted AS (
			INSERT INTO vocabulary (id, word, word_key, meaning, level, example, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (word_key) DO NOTHING
			RETURNING id, word, meaning, level, example, created_at
		)
		SELECT id, word, meaning, level, example, created_at FROM inserted
		UNION ALL
		SELECT id, word, meaning, level, example, created_at FROM vocabulary WHERE word_key = $3
		LIMIT 1
	`
	stored, err := scanCatalogItem(s.db.QueryRowContext(
		ctx,
		query,
		item.ID,
		item.Word,
		item.Key(),
		item.Meaning,
		item.Level,
		nullString(item.Example),
		item.CreatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent insert committed after this statement's snapshot.
		stored, err = scanCatalogItem(s.db.QueryRowContext(ctx, `
			SELECT id, word, meaning, level, example, created_at
			FROM vocabulary
			WHERE word_key = $1
		`, item.Key()))
	}
	if err != nil {
		return nil, MapError(err)
	}
	return stored, nil
}

func scanCatalogItem(row rowScanner) (*domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	var example sql.NullString

	if err := row.Scan(
		&item.ID,
		&item.Word,
		&item.Meaning,
		&item.Level,
		&example,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Example = example.String
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

// List implements store.VocabularyStore.List
func (s *PostgresVocabularyStore) List(
	ctx context.Context,
	userID string,
	dueOnly bool,
	now time.Time,
) ([]domain.SavedVocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		rows *sql.Rows
		err  error
	)

	if dueOnly {
		query := `
			SELECT ` + savedColumns + `
			FROM user_vocabulary uv
			JOIN vocabulary v ON v.id = uv.vocabulary_id
			WHERE uv.user_id = $1 AND ` + dueCondition(2, 3) + `
			ORDER BY COALESCE(uv.due_at, uv.due_date::timestamptz) ASC, uv.created_at ASC
		`
		rows, err = s.db.QueryContext(ctx, query, userID, now, domain.CalendarDate(now))
	} else {
		query := `
			SELECT ` + savedColumns + `
			FROM user_vocabulary uv
			JOIN vocabulary v ON v.id = uv.vocabulary_id
			WHERE uv.user_id = $1
			ORDER BY uv.created_at DESC
		`
		rows, err = s.db.QueryContext(ctx, query, userID)
	}
	if err != nil {
		log.Error("failed to list vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.Bool("due_only", dueOnly))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	saved := make([]domain.SavedVocabulary, 0)
	for rows.Next() {
		entry, err := scanSavedVocabulary(rows)
		if err != nil {
			log.Error("failed to scan vocabulary row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID))
			return nil, err
		}
		saved = append(saved, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("vocabulary listed",
		slog.String("user_id", userID),
		slog.Bool("due_only", dueOnly),
		slog.Int("count", len(saved)))

	return saved, nil
}

func scanSavedVocabulary(row rowScanner) (*domain.SavedVocabulary, error) {
	var (
		entry          domain.SavedVocabulary
		example        sql.NullString
		dueDate        sql.NullTime
		dueAt          sql.NullTime
		step           int
		videoID        sql.NullString
		sentence       sql.NullString
		lastReviewedAt sql.NullTime
	)

	if err := row.Scan(
		&entry.Item.ID,
		&entry.Item.Word,
		&entry.Item.Meaning,
		&entry.Item.Level,
		&example,
		&entry.Item.CreatedAt,
		&entry.State.UserID,
		&entry.State.EaseFactor,
		&entry.State.IntervalDays,
		&entry.State.IntervalMinutes,
		&dueDate,
		&dueAt,
		&entry.State.ReviewCount,
		&step,
		&entry.State.Lapses,
		&videoID,
		&sentence,
		&entry.State.CreatedAt,
		&lastReviewedAt,
	); err != nil {
		return nil, err
	}

	phase, err := domain.PhaseFromStep(step)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	entry.Item.Example = example.String
	entry.Item.CreatedAt = entry.Item.CreatedAt.UTC()
	entry.State.VocabularyID = entry.Item.ID
	entry.State.Phase = phase
	entry.State.DueDate = dateOnly(dueDate)
	entry.State.DueAt = timeOrZero(dueAt)
	entry.State.Source = domain.SourceContext{VideoID: videoID.String, Sentence: sentence.String}
	entry.State.CreatedAt = entry.State.CreatedAt.UTC()
	entry.State.LastReviewedAt = timeOrZero(lastReviewedAt)

	return &entry, nil
}

func scanScheduleState(row rowScanner) (*domain.ScheduleState, error) {
	var (
		state          domain.ScheduleState
		dueDate        sql.NullTime
		dueAt          sql.NullTime
		step           int
		videoID        sql.NullString
		sentence       sql.NullString
		lastReviewedAt sql.NullTime
	)

	if err := row.Scan(
		&state.UserID,
		&state.VocabularyID,
		&state.EaseFactor,
		&state.IntervalDays,
		&state.IntervalMinutes,
		&dueDate,
		&dueAt,
		&state.ReviewCount,
		&step,
		&state.Lapses,
		&videoID,
		&sentence,
		&state.CreatedAt,
		&lastReviewedAt,
	); err != nil {
		return nil, err
	}

	phase, err := domain.PhaseFromStep(step)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	state.Phase = phase
	state.DueDate = dateOnly(dueDate)
	state.DueAt = timeOrZero(dueAt)
	state.Source = domain.SourceContext{VideoID: videoID.String, Sentence: sentence.String}
	state.CreatedAt = state.CreatedAt.UTC()
	state.LastReviewedAt = timeOrZero(lastReviewedAt)

	return &state, nil
}

// GetForUpdate implements store.VocabularyStore.GetForUpdate
func (s *PostgresVocabularyStore) GetForUpdate(
	ctx context.Context,
	userID string,
	vocabularyID uuid.UUID,
) (*domain.ScheduleState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + stateColumns + `
		FROM user_vocabulary uv
		WHERE uv.user_id = $1 AND uv.vocabulary_id = $2
		FOR UPDATE
	`
	state, err := scanScheduleState(s.db.QueryRowContext(ctx, query, userID, vocabularyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user vocabulary not found",
				slog.String("user_id", userID),
				slog.String("vocabulary_id", vocabularyID.String()))
			return nil, store.ErrVocabularyNotFound
		}
		log.Error("failed to load user vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("vocabulary_id", vocabularyID.String()))
		return nil, MapError(err)
	}

	return state, nil
}

// ApplyReview implements store.VocabularyStore.ApplyReview
func (s *PostgresVocabularyStore) ApplyReview(ctx context.Context, state *domain.ScheduleState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE user_vocabulary SET
			ease_factor = $3,
			interval_days = $4,
			interval_minutes = $5,
			due_date = $6,
			due_at = $7,
			review_count = $8,
			learning_step = $9,
			lapses = $10,
			last_reviewed_at = $11
		WHERE user_id = $1 AND vocabulary_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.VocabularyID,
		state.EaseFactor,
		state.IntervalDays,
		state.IntervalMinutes,
		nullTime(state.DueDate),
		nullTime(state.DueAt),
		state.ReviewCount,
		state.Phase.StoredStep(),
		state.Lapses,
		nullTime(state.LastReviewedAt),
	)
	if err != nil {
		log.Error("failed to apply review",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID),
			slog.String("vocabulary_id", state.VocabularyID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrVocabularyNotFound); err != nil {
		return err
	}

	log.Debug("review applied",
		slog.String("user_id", state.UserID),
		slog.String("vocabulary_id", state.VocabularyID.String()),
		slog.String("phase", state.Phase.String()),
		slog.Time("due_at", state.DueAt))

	return nil
}

// Remove implements store.VocabularyStore.Remove
func (s *PostgresVocabularyStore) Remove(ctx context.Context, userID string, vocabularyID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_vocabulary WHERE user_id = $1 AND vocabulary_id = $2`,
		userID, vocabularyID)
	if err != nil {
		log.Error("failed to remove user vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("vocabulary_id", vocabularyID.String()))
		return MapError(err)
	}

	return nil
}

// Exists implements store.VocabularyStore.Exists
func (s *PostgresVocabularyStore) Exists(ctx context.Context, userID string, word string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_vocabulary uv
			JOIN vocabulary v ON v.id = uv.vocabulary_id
			WHERE uv.user_id = $1 AND v.word_key = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, domain.NormalizeWord(word)).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// CountDue implements store.VocabularyStore.CountDue
func (s *PostgresVocabularyStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_vocabulary uv
		WHERE ` + dueCondition(1, 2)

	var count int
	if err := s.db.QueryRowContext(ctx, query, now, domain.CalendarDate(now)).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}
