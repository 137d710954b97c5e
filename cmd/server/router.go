package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-vocab/internal/api"
	apiMiddleware "github.com/phrazzld/scry-vocab/internal/api/middleware"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	vocabularyHandler := api.NewVocabularyHandler(app.vocabularyService, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Route("/vocabulary", vocabularyHandler.Routes)
		r.Route("/stats", statsHandler.Routes)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
