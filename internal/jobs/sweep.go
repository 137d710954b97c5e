// Package jobs runs periodic background work next to the HTTP server.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/scry-vocab/internal/metrics"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// DueCounter counts the schedules due across all users.
type DueCounter interface {
	CountDue(ctx context.Context, now time.Time) (int, error)
}

// BacklogSweep periodically publishes the number of due items as the
// vocabulary_due_items gauge.
type BacklogSweep struct {
	counter   DueCounter
	interval  time.Duration
	clock     func() time.Time
	logger    *slog.Logger
	scheduler *gocron.Scheduler
}

// NewBacklogSweep creates a sweep that runs every interval.
func NewBacklogSweep(counter DueCounter, interval time.Duration, logger *slog.Logger) *BacklogSweep {
	if counter == nil {
		panic("counter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	return &BacklogSweep{
		counter:   counter,
		interval:  interval,
		clock:     time.Now,
		logger:    logger.With(slog.String("component", "backlog_sweep")),
		scheduler: scheduler,
	}
}

// Start schedules the sweep and returns immediately. The first sweep runs
// right away. ctx is passed to every sweep.
func (s *BacklogSweep) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("sweep interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		_ = s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backlog sweep: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("backlog sweep started", slog.Duration("interval", s.interval))
	return nil
}

// Stop stops the scheduler. A sweep in progress is allowed to finish.
func (s *BacklogSweep) Stop() {
	s.scheduler.Stop()
	s.logger.Info("backlog sweep stopped")
}

// RunOnce counts the due items and updates the gauge. The gauge keeps its
// previous value when counting fails.
func (s *BacklogSweep) RunOnce(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	started := time.Now()
	count, err := s.counter.CountDue(ctx, s.clock())
	metrics.SweepDurationSeconds.Observe(time.Since(started).Seconds())

	if err != nil {
		log.Error("backlog sweep failed", slog.String("error", err.Error()))
		return err
	}

	metrics.DueItems.Set(float64(count))
	log.Debug("backlog sweep finished", slog.Int("due_items", count))
	return nil
}
