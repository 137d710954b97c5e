package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/metrics"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// Option configures the service.
type Option func(*serviceImpl)

// WithClock replaces the wall clock used for scheduling.
func WithClock(clock func() time.Time) Option {
	return func(s *serviceImpl) {
		s.clock = clock
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *serviceImpl) {
		if loc != nil {
			s.location = loc
		}
	}
}

type serviceImpl struct {
	vocabStore store.VocabularyStore
	transactor store.Transactor
	scheduler  srs.Service
	emitter    events.EventEmitter
	logger     *slog.Logger
	clock      func() time.Time
	location   *time.Location
}

// NewService creates a new vocabulary Service.
func NewService(
	vocabStore store.VocabularyStore,
	transactor store.Transactor,
	scheduler srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if vocabStore == nil {
		panic("vocabStore cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		vocabStore: vocabStore,
		transactor: transactor,
		scheduler:  scheduler,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "vocabulary_service")),
		clock:      time.Now,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now reads the clock once per operation.
func (s *serviceImpl) now() time.Time {
	return s.clock().In(s.location)
}

// Save implements Service.Save.
func (s *serviceImpl) Save(ctx context.Context, userID string, req SaveRequest) (*domain.SavedVocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	now := s.now()
	item, err := domain.NewVocabularyItem(req.Word, req.Meaning, req.Level, req.Example, now)
	if err != nil {
		log.Debug("rejected vocabulary item",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, err
	}

	initial, err := s.scheduler.NewState(userID, item.ID, req.Source, now)
	if err != nil {
		return nil, err
	}

	var saved *domain.SavedVocabulary
	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		saved, txErr = s.vocabStore.WithTx(tx).UpsertOnFirstSave(ctx, item, initial)
		return txErr
	})
	if err != nil {
		log.Error("failed to save vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("word", item.Word))
		return nil, NewServiceError("save", "failed to save vocabulary", err)
	}

	metrics.WordsSavedTotal.Inc()
	log.Info("vocabulary saved",
		slog.String("user_id", userID),
		slog.String("vocabulary_id", saved.Item.ID.String()),
		slog.Time("due_at", saved.State.DueAt))

	s.emit(ctx, log, events.NewWordLearnedEvent(userID, saved.Item.ID, now))
	return saved, nil
}

// List implements Service.List.
func (s *serviceImpl) List(ctx context.Context, userID string, dueOnly bool) ([]Entry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	now := s.now()
	saved, err := s.vocabStore.List(ctx, userID, dueOnly, now)
	if err != nil {
		log.Error("failed to list vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.Bool("due_only", dueOnly))
		return nil, NewServiceError("list", "failed to list vocabulary", err)
	}

	entries := make([]Entry, 0, len(saved))
	for i := range saved {
		entries = append(entries, Entry{
			Item:           saved[i].Item,
			State:          saved[i].State,
			MemoryStrength: s.scheduler.Strength(&saved[i].State, now),
		})
	}

	log.Debug("listed vocabulary",
		slog.String("user_id", userID),
		slog.Bool("due_only", dueOnly),
		slog.Int("count", len(entries)))
	return entries, nil
}

// Review implements Service.Review.
func (s *serviceImpl) Review(
	ctx context.Context,
	userID string,
	vocabularyID uuid.UUID,
	quality domain.Quality,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	if !quality.Valid() {
		log.Warn("invalid review quality",
			slog.String("user_id", userID),
			slog.String("vocabulary_id", vocabularyID.String()),
			slog.Int("quality", int(quality)))
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, int(quality))
	}

	now := s.now()
	var result *ReviewResult
	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		vocabStore := s.vocabStore.WithTx(tx)

		current, err := vocabStore.GetForUpdate(ctx, userID, vocabularyID)
		if err != nil {
			if errors.Is(err, store.ErrVocabularyNotFound) {
				return ErrVocabularyNotFound
			}
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		next, err := s.scheduler.Advance(current, quality, now)
		if err != nil {
			return fmt.Errorf("failed to advance schedule: %w", err)
		}

		if err := vocabStore.ApplyReview(ctx, next); err != nil {
			if errors.Is(err, store.ErrVocabularyNotFound) {
				return ErrVocabularyNotFound
			}
			return fmt.Errorf("failed to store schedule: %w", err)
		}

		result = &ReviewResult{
			State:          next,
			Transition:     srs.ClassifyTransition(current.Phase, quality),
			MemoryStrength: s.scheduler.Strength(next, now),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVocabularyNotFound) {
			log.Debug("review for unsaved vocabulary",
				slog.String("user_id", userID),
				slog.String("vocabulary_id", vocabularyID.String()))
			return nil, err
		}

		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("vocabulary_id", vocabularyID.String()))
		return nil, NewServiceError("review", "failed to record review", err)
	}

	metrics.ReviewsTotal.WithLabelValues(quality.String()).Inc()
	metrics.TransitionsTotal.WithLabelValues(string(result.Transition)).Inc()

	log.Info("review recorded",
		slog.String("user_id", userID),
		slog.String("vocabulary_id", vocabularyID.String()),
		slog.String("quality", quality.String()),
		slog.String("transition", string(result.Transition)),
		slog.String("phase", result.State.Phase.String()),
		slog.Time("due_at", result.State.DueAt))

	s.emit(ctx, log, events.NewReviewRecordedEvent(userID, vocabularyID, quality.Correct(), now))
	return result, nil
}

// Delete implements Service.Delete.
func (s *serviceImpl) Delete(ctx context.Context, userID string, vocabularyID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return domain.ErrEmptyUserID
	}

	if err := s.vocabStore.Remove(ctx, userID, vocabularyID); err != nil {
		log.Error("failed to delete vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("vocabulary_id", vocabularyID.String()))
		return NewServiceError("delete", "failed to delete vocabulary", err)
	}

	log.Info("vocabulary deleted",
		slog.String("user_id", userID),
		slog.String("vocabulary_id", vocabularyID.String()))
	return nil
}

// IsSaved implements Service.IsSaved.
func (s *serviceImpl) IsSaved(ctx context.Context, userID string, word string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return false, domain.ErrEmptyUserID
	}
	if domain.NormalizeWord(word) == "" {
		return false, domain.ErrEmptyWord
	}

	exists, err := s.vocabStore.Exists(ctx, userID, word)
	if err != nil {
		log.Error("failed to check saved vocabulary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return false, NewServiceError("is_saved", "failed to check vocabulary", err)
	}
	return exists, nil
}

// emit publishes a study event after the schedule write has committed.
// A failed progress update is logged and counted; the schedule stays.
func (s *serviceImpl) emit(ctx context.Context, log *slog.Logger, event *events.StudyEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		metrics.ProgressFailuresTotal.WithLabelValues(string(event.Type)).Inc()
		log.Warn("failed to record study progress",
			slog.String("error", err.Error()),
			slog.String("event_type", string(event.Type)),
			slog.String("user_id", event.UserID))
	}
}
