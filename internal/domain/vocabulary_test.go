package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabularyItem(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	item, err := NewVocabularyItem("  serendipity ", "happy accident", "C1", "", now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "serendipity", item.Word)
	assert.Equal(t, "happy accident", item.Meaning)
	assert.Equal(t, "C1", item.Level)
	assert.Empty(t, item.Example)
	assert.Equal(t, now, item.CreatedAt)
}

func TestNewVocabularyItemValidation(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	tests := []struct {
		name    string
		word    string
		meaning string
		wantErr error
	}{
		{name: "empty word", word: "", meaning: "x", wantErr: ErrEmptyWord},
		{name: "whitespace word", word: "   ", meaning: "x", wantErr: ErrEmptyWord},
		{name: "empty meaning", word: "cat", meaning: " ", wantErr: ErrEmptyMeaning},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item, err := NewVocabularyItem(tc.word, tc.meaning, "A1", "", now)
			assert.Nil(t, item)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "apple", NormalizeWord("Apple"))
	assert.Equal(t, "apple", NormalizeWord("  APPLE\t"))
	assert.Equal(t, "", NormalizeWord("   "))
}

func TestVocabularyItemKeyMergesCaseVariants(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	proper, err := NewVocabularyItem("Polish", "from Poland", "", "", now)
	require.NoError(t, err)
	verb, err := NewVocabularyItem("polish", "to make shiny", "", "", now)
	require.NoError(t, err)

	assert.Equal(t, proper.Key(), verb.Key(), "case variants share one catalog entry")
	assert.Equal(t, "Polish", proper.Word, "display form keeps the original casing")
}
