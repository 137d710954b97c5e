package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Limits for the daily stats window.
const (
	DefaultDailyWindow = 7
	MaxDailyWindow     = 365
)

// Overview combines the numbers shown on the study dashboard.
type Overview struct {
	Today       domain.DailyStat       `json:"today"`
	Progress    domain.ProgressSummary `json:"progress"`
	WeeklyStats []domain.DailyStat     `json:"weekly_stats"`
	// AccuracyRate is the percentage of correct reviews over WeeklyStats, 0 without reviews.
	AccuracyRate float64 `json:"accuracy_rate"`
}

// StatsService answers read-only questions about a user's study history.
// Users who never studied get zero values rather than errors.
type StatsService interface {
	// Today returns the counters for the current calendar day.
	Today(ctx context.Context, userID string) (*domain.DailyStat, error)

	// Daily returns the counters for the last days days plus today, newest first.
	Daily(ctx context.Context, userID string, days int) ([]domain.DailyStat, error)

	// Progress returns the user's totals and streaks.
	Progress(ctx context.Context, userID string) (*domain.ProgressSummary, error)

	// Overview returns today's counters, the progress summary and the last week.
	Overview(ctx context.Context, userID string) (*Overview, error)

	// MemoryDistribution buckets every saved item by its current memory strength.
	MemoryDistribution(ctx context.Context, userID string) (*domain.MemoryDistribution, error)
}

// StatsOption configures the stats service.
type StatsOption func(*statsService)

// WithStatsClock replaces the wall clock.
func WithStatsClock(clock func() time.Time) StatsOption {
	return func(s *statsService) {
		s.clock = clock
	}
}

// WithStatsLocation sets the time zone that defines calendar days.
func WithStatsLocation(loc *time.Location) StatsOption {
	return func(s *statsService) {
		if loc != nil {
			s.location = loc
		}
	}
}

type statsService struct {
	progressStore store.ProgressStore
	vocabStore    store.VocabularyStore
	scheduler     srs.Service
	logger        *slog.Logger
	clock         func() time.Time
	location      *time.Location
}

var _ StatsService = (*statsService)(nil)

// NewStatsService creates a StatsService.
func NewStatsService(
	progressStore store.ProgressStore,
	vocabStore store.VocabularyStore,
	scheduler srs.Service,
	logger *slog.Logger,
	opts ...StatsOption,
) StatsService {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if vocabStore == nil {
		panic("vocabStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &statsService{
		progressStore: progressStore,
		vocabStore:    vocabStore,
		scheduler:     scheduler,
		logger:        logger.With(slog.String("component", "stats_service")),
		clock:         time.Now,
		location:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *statsService) now() time.Time {
	return s.clock().In(s.location)
}

// Today implements StatsService.Today.
func (s *statsService) Today(ctx context.Context, userID string) (*domain.DailyStat, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	return s.today(ctx, userID, domain.CalendarDate(s.now()))
}

func (s *statsService) today(ctx context.Context, userID string, day time.Time) (*domain.DailyStat, error) {
	stat, err := s.progressStore.GetDailyStat(ctx, userID, day)
	if err != nil {
		if errors.Is(err, store.ErrDailyStatNotFound) {
			return &domain.DailyStat{UserID: userID, Date: day}, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get today's stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewStatsError("today", "failed to get today's stats", err)
	}
	return stat, nil
}

// Daily implements StatsService.Daily.
func (s *statsService) Daily(ctx context.Context, userID string, days int) ([]domain.DailyStat, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	return s.daily(ctx, userID, domain.CalendarDate(s.now()), days)
}

func (s *statsService) daily(ctx context.Context, userID string, today time.Time, days int) ([]domain.DailyStat, error) {
	if days <= 0 {
		days = DefaultDailyWindow
	}
	if days > MaxDailyWindow {
		days = MaxDailyWindow
	}

	stats, err := s.progressStore.ListDailyStats(ctx, userID, today.AddDate(0, 0, -days))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list daily stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.Int("days", days))
		return nil, NewStatsError("daily", "failed to list daily stats", err)
	}
	return stats, nil
}

// Progress implements StatsService.Progress.
func (s *statsService) Progress(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	summary, err := s.progressStore.GetProgress(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return &domain.ProgressSummary{UserID: userID}, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewStatsError("progress", "failed to get progress", err)
	}
	return summary, nil
}

// Overview implements StatsService.Overview.
func (s *statsService) Overview(ctx context.Context, userID string) (*Overview, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	today := domain.CalendarDate(s.now())

	todayStat, err := s.today(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	summary, err := s.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekly, err := s.daily(ctx, userID, today, DefaultDailyWindow)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Today:        *todayStat,
		Progress:     *summary,
		WeeklyStats:  weekly,
		AccuracyRate: AccuracyRate(weekly),
	}, nil
}

// MemoryDistribution implements StatsService.MemoryDistribution.
func (s *statsService) MemoryDistribution(ctx context.Context, userID string) (*domain.MemoryDistribution, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	now := s.now()
	saved, err := s.vocabStore.List(ctx, userID, false, now)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list vocabulary for distribution",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewStatsError("memory_distribution", "failed to list vocabulary", err)
	}

	var dist domain.MemoryDistribution
	for i := range saved {
		dist.Add(s.scheduler.Strength(&saved[i].State, now))
	}
	return &dist, nil
}

// AccuracyRate returns correct answers as a percentage of reviews across
// stats, or 0 when there were no reviews.
func AccuracyRate(stats []domain.DailyStat) float64 {
	var correct, reviewed int
	for _, stat := range stats {
		correct += stat.CorrectCount
		reviewed += stat.WordsReviewed
	}
	if reviewed == 0 {
		return 0
	}
	return float64(correct) / float64(reviewed) * 100
}
