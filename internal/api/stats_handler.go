package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/service/progress"
)

// StatsHandler serves the read-only study statistics.
type StatsHandler struct {
	statsService progress.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService progress.StatsService, logger *slog.Logger) *StatsHandler {
	if statsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("statsService cannot be nil for StatsHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StatsHandler")
	}

	return &StatsHandler{
		statsService: statsService,
		logger:       logger.With(slog.String("component", "stats_handler")),
	}
}

// Routes mounts the stats endpoints on r.
func (h *StatsHandler) Routes(r chi.Router) {
	r.Get("/today", h.Today)
	r.Get("/daily", h.Daily)
	r.Get("/progress", h.Progress)
	r.Get("/overview", h.Overview)
	r.Get("/memory-distribution", h.MemoryDistribution)
}

// Today handles GET /stats/today requests.
func (h *StatsHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	stat, err := h.statsService.Today(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err, "Failed to get today's stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stat)
}

// Daily handles GET /stats/daily?days=N requests.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	days, err := queryInt(r, "days", progress.DefaultDailyWindow)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.statsService.Daily(r.Context(), userID, days)
	if err != nil {
		h.respondWithServiceError(w, r, err, "Failed to get daily stats")
		return
	}
	if stats == nil {
		stats = []domain.DailyStat{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Progress handles GET /stats/progress requests.
func (h *StatsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	summary, err := h.statsService.Progress(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err, "Failed to get progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Overview handles GET /stats/overview requests.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	overview, err := h.statsService.Overview(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err, "Failed to get overview")
		return
	}
	if overview.WeeklyStats == nil {
		overview.WeeklyStats = []domain.DailyStat{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// MemoryDistribution handles GET /stats/memory-distribution requests.
func (h *StatsHandler) MemoryDistribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	dist, err := h.statsService.MemoryDistribution(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err, "Failed to get memory distribution")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dist)
}

func (h *StatsHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError {
		safeMessage = fallback
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}
