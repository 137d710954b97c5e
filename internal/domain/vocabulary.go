package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// VocabularyItem is an entry in the shared vocabulary catalog.
// Items are created on first save and never modified afterwards.
type VocabularyItem struct {
	ID        uuid.UUID `json:"id"`
	Word      string    `json:"word"`
	Meaning   string    `json:"meaning"`
	Level     string    `json:"level"`
	Example   string    `json:"example,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceContext records where a user encountered a word.
type SourceContext struct {
	VideoID  string `json:"source_video_id,omitempty"`
	Sentence string `json:"source_sentence,omitempty"`
}

var wordFolder = cases.Fold()

// NormalizeWord returns the catalog key for a word: surrounding whitespace
// removed and case folded, so "Serendipity " and "serendipity" share an entry.
func NormalizeWord(word string) string {
	return wordFolder.String(strings.TrimSpace(word))
}

// NewVocabularyItem creates a catalog item with a fresh ID.
func NewVocabularyItem(word, meaning, level, example string, now time.Time) (*VocabularyItem, error) {
	item := &VocabularyItem{
		ID:        uuid.New(),
		Word:      strings.TrimSpace(word),
		Meaning:   strings.TrimSpace(meaning),
		Level:     strings.TrimSpace(level),
		Example:   strings.TrimSpace(example),
		CreatedAt: now.UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the VocabularyItem has valid data.
func (v *VocabularyItem) Validate() error {
	if v.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if NormalizeWord(v.Word) == "" {
		return ErrEmptyWord
	}
	if strings.TrimSpace(v.Meaning) == "" {
		return ErrEmptyMeaning
	}
	return nil
}

// Key returns the normalized catalog key of the item.
func (v *VocabularyItem) Key() string {
	return NormalizeWord(v.Word)
}

// SavedVocabulary pairs a catalog item with one user's schedule for it.
type SavedVocabulary struct {
	Item  VocabularyItem `json:"item"`
	State ScheduleState  `json:"state"`
}
