package progress

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Tracker turns study events into daily counters and streak updates.
// It is registered as an events.EventHandler.
type Tracker struct {
	progressStore store.ProgressStore
	transactor    store.Transactor
	location      *time.Location
	logger        *slog.Logger
}

var _ events.EventHandler = (*Tracker)(nil)

// NewTracker creates a Tracker. Calendar days are taken in loc; a nil loc
// means UTC.
func NewTracker(
	progressStore store.ProgressStore,
	transactor store.Transactor,
	loc *time.Location,
	logger *slog.Logger,
) *Tracker {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if transactor == nil {
		panic("transactor cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		progressStore: progressStore,
		transactor:    transactor,
		location:      loc,
		logger:        logger.With(slog.String("component", "progress_tracker")),
	}
}

// HandleEvent implements events.EventHandler.
//
// The day's counters and the summary are updated in one transaction. The
// streak is evaluated on the calendar day the event occurred.
func (t *Tracker) HandleEvent(ctx context.Context, event *events.StudyEvent) error {
	log := logger.FromContextOrDefault(ctx, t.logger)

	day := domain.CalendarDate(event.OccurredAt.In(t.location))
	delta := domain.DailyStat{UserID: event.UserID, Date: day}

	switch event.Type {
	case events.WordLearned:
		delta.WordsLearned = 1
	case events.ReviewRecorded:
		delta.WordsReviewed = 1
		if event.Correct {
			delta.CorrectCount = 1
		} else {
			delta.IncorrectCount = 1
		}
	default:
		log.Debug("ignoring study event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.Type)))
		return nil
	}

	err := t.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressStore := t.progressStore.WithTx(tx)

		if err := progressStore.IncrementDailyStat(ctx, delta); err != nil {
			return fmt.Errorf("failed to increment daily stat: %w", err)
		}

		summary, err := progressStore.GetProgressForUpdate(ctx, event.UserID, event.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		next := summary.RecordStudyDay(day)
		next.TotalWordsLearned += delta.WordsLearned
		next.TotalReviews += delta.WordsReviewed

		if err := progressStore.UpdateProgress(ctx, &next); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record study event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.Type)),
			slog.String("user_id", event.UserID))
		return err
	}

	log.Debug("study event recorded",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.String("user_id", event.UserID),
		slog.Time("day", day))
	return nil
}
