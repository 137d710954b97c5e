package mocks

import (
	"context"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service/progress"
)

// MockStatsService implements progress.StatsService for handler tests.
type MockStatsService struct {
	TodayFn              func(ctx context.Context, userID string) (*domain.DailyStat, error)
	DailyFn              func(ctx context.Context, userID string, days int) ([]domain.DailyStat, error)
	ProgressFn           func(ctx context.Context, userID string) (*domain.ProgressSummary, error)
	OverviewFn           func(ctx context.Context, userID string) (*progress.Overview, error)
	MemoryDistributionFn func(ctx context.Context, userID string) (*domain.MemoryDistribution, error)

	// Err is returned by methods without a function field set.
	Err error
}

var _ progress.StatsService = (*MockStatsService)(nil)

// Today implements progress.StatsService.
func (m *MockStatsService) Today(ctx context.Context, userID string) (*domain.DailyStat, error) {
	if m.TodayFn != nil {
		return m.TodayFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.DailyStat{UserID: userID}, nil
}

// Daily implements progress.StatsService.
func (m *MockStatsService) Daily(ctx context.Context, userID string, days int) ([]domain.DailyStat, error) {
	if m.DailyFn != nil {
		return m.DailyFn(ctx, userID, days)
	}
	return nil, m.Err
}

// Progress implements progress.StatsService.
func (m *MockStatsService) Progress(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	if m.ProgressFn != nil {
		return m.ProgressFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.ProgressSummary{UserID: userID}, nil
}

// Overview implements progress.StatsService.
func (m *MockStatsService) Overview(ctx context.Context, userID string) (*progress.Overview, error) {
	if m.OverviewFn != nil {
		return m.OverviewFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &progress.Overview{}, nil
}

// MemoryDistribution implements progress.StatsService.
func (m *MockStatsService) MemoryDistribution(ctx context.Context, userID string) (*domain.MemoryDistribution, error) {
	if m.MemoryDistributionFn != nil {
		return m.MemoryDistributionFn(ctx, userID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.MemoryDistribution{}, nil
}
