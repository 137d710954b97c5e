// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/service/vocabulary"
)

// VocabularyHandler handles vocabulary HTTP requests
type VocabularyHandler struct {
	vocabularyService vocabulary.Service
	logger            *slog.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler
func NewVocabularyHandler(vocabularyService vocabulary.Service, logger *slog.Logger) *VocabularyHandler {
	if vocabularyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("vocabularyService cannot be nil for VocabularyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for VocabularyHandler")
	}

	return &VocabularyHandler{
		vocabularyService: vocabularyService,
		logger:            logger.With(slog.String("component", "vocabulary_handler")),
	}
}

// Routes mounts the vocabulary endpoints on r.
func (h *VocabularyHandler) Routes(r chi.Router) {
	r.Post("/save", h.Save)
	r.Get("/list", h.List)
	r.Post("/review", h.Review)
	r.Delete("/{id}", h.Delete)
	r.Get("/check/{word}", h.Check)
}

// Save handles POST /vocabulary/save requests.
// It adds the word to the catalog if needed and starts the user's schedule for it.
func (h *VocabularyHandler) Save(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req SaveVocabularyRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	saved, err := h.vocabularyService.Save(r.Context(), userID, vocabulary.SaveRequest{
		Word:    req.Word,
		Meaning: req.Meaning,
		Level:   req.Level,
		Example: req.Example,
		Source: domain.SourceContext{
			VideoID:  req.SourceVideoID,
			Sentence: req.SourceSentence,
		},
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to save vocabulary"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("saved vocabulary",
		slog.String("user_id", userID),
		slog.String("vocabulary_id", saved.Item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, saved)
}

// List handles GET /vocabulary/list requests. With due_only=true only items
// due now are returned.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	dueOnly, err := queryBool(r, "due_only")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.vocabularyService.List(r.Context(), userID, dueOnly)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to list vocabulary"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	if entries == nil {
		entries = []vocabulary.Entry{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabularyListResponse{
		Vocabulary: entries,
		Total:      len(entries),
	})
}

// Review handles POST /vocabulary/review requests.
// It records the answer and returns the rescheduled state.
func (h *VocabularyHandler) Review(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	vocabID, err := uuid.Parse(req.VocabID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("vocab_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}

	result, err := h.vocabularyService.Review(r.Context(), userID, vocabID, domain.Quality(*req.Quality))
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("recorded review",
		slog.String("user_id", userID),
		slog.String("vocabulary_id", vocabID.String()),
		slog.String("transition", string(result.Transition)))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Delete handles DELETE /vocabulary/{id} requests.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	vocabID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid vocabulary ID", slog.String("id", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.vocabularyService.Delete(r.Context(), userID, vocabID); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to delete vocabulary"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check handles GET /vocabulary/check/{word} requests.
func (h *VocabularyHandler) Check(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	word := strings.TrimSpace(chi.URLParam(r, "word"))
	saved, err := h.vocabularyService.IsSaved(r.Context(), userID, word)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to check vocabulary"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CheckSavedResponse{Saved: saved})
}
