package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/jobs"
	"github.com/phrazzld/scry-vocab/internal/metrics"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/service/auth"
	"github.com/phrazzld/scry-vocab/internal/service/progress"
	"github.com/phrazzld/scry-vocab/internal/service/vocabulary"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry

	jwtService        auth.JWTService
	vocabularyService vocabulary.Service
	statsService      progress.StatsService

	sweep *jobs.BacklogSweep
}

// newApplication wires stores, services and background jobs on top of an
// open database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: newRegistry(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	scheduler, err := srs.NewDefaultService()
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	loc := cfg.Scheduler.Location()
	transactor := store.NewSQLTransactor(db)
	vocabStore := postgres.NewPostgresVocabularyStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)

	// Study events feed the progress tracker after each committed write.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(progress.NewTracker(progressStore, transactor, loc, logger))

	app.vocabularyService = vocabulary.NewService(
		vocabStore,
		transactor,
		scheduler,
		emitter,
		logger,
		vocabulary.WithLocation(loc),
	)
	app.statsService = progress.NewStatsService(
		progressStore,
		vocabStore,
		scheduler,
		logger,
		progress.WithStatsLocation(loc),
	)

	app.sweep = jobs.NewBacklogSweep(
		vocabStore,
		time.Duration(cfg.Scheduler.SweepIntervalMinutes)*time.Minute,
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// newRegistry returns a registry with the service collectors plus the Go
// runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Run starts the backlog sweep and serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.sweep != nil {
		if err := app.sweep.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backlog sweep: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweep != nil {
		app.sweep.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
