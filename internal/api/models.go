package api

import (
	"github.com/phrazzld/scry-vocab/internal/service/vocabulary"
)

// SaveVocabularyRequest defines the payload for saving a word.
type SaveVocabularyRequest struct {
	Word           string `json:"word"                      validate:"required,max=200"`
	Meaning        string `json:"meaning"                   validate:"required,max=2000"`
	Level          string `json:"level"                     validate:"max=50"`
	Example        string `json:"example,omitempty"         validate:"max=2000"`
	SourceVideoID  string `json:"source_video_id,omitempty" validate:"max=100"`
	SourceSentence string `json:"source_sentence,omitempty" validate:"max=2000"`
}

// ReviewRequest defines the payload for answering a review.
type ReviewRequest struct {
	VocabID string `json:"vocab_id" validate:"required,uuid"`
	// Quality is a pointer so that an omitted field is distinguishable from 0 (forgot).
	Quality *int `json:"quality" validate:"required,min=0,max=3"`
}

// VocabularyListResponse is returned by the list endpoint.
type VocabularyListResponse struct {
	Vocabulary []vocabulary.Entry `json:"vocabulary"`
	Total      int                `json:"total"`
}

// CheckSavedResponse is returned by the check endpoint.
type CheckSavedResponse struct {
	Saved bool `json:"saved"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
