package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

func TestFallbackTags(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    []string
	}{
		{"work keywords", "Meeting about project deadline", "", []string{"work"}},
		{"no keywords", "Groceries", "eggs and milk", []string{GeneralTag}},
		{"case insensitive", "URGENT", "", []string{"important"}},
		{"multi-word keyword", "", "I need to call mom", []string{"todo"}},
		{"capped at three in order", "Office idea", "family must study urgent", []string{"work", "personal", "todo"}},
		{"substring match", "", "homework", []string{"work", "personal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackTags(tt.title, tt.content))
		})
	}
}

func TestFallbackSuggestions(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("short note", func(t *testing.T) {
		s := FallbackSuggestions("Hi", "buy eggs", now)

		assert.Equal(t, []string{
			"Consider expanding your note with more details",
			"Consider adding a more descriptive title",
		}, s.Improvements)
		assert.Equal(t, []string{"Add examples or specific details"}, s.CompletionSuggestions)
		assert.Equal(t, []string{"Break content into shorter sentences"}, s.SuggestedEdits)
		assert.Equal(t, domain.ReadabilityHigh, s.ReadabilityScore)
		assert.Equal(t, domain.DefaultTone, s.ToneAnalysis)
		assert.Equal(t, now, s.GeneratedAt)
	})

	t.Run("long plain note", func(t *testing.T) {
		content := strings.Repeat("The cat sat on a warm mat. ", 12)
		s := FallbackSuggestions("Cats on mats", content, now)

		assert.Empty(t, s.Improvements)
		assert.NotNil(t, s.Improvements)
		assert.Empty(t, s.SuggestedEdits)
		assert.Empty(t, s.CompletionSuggestions)
		assert.Equal(t, domain.ReadabilityHigh, s.ReadabilityScore)
	})

	t.Run("long words", func(t *testing.T) {
		content := strings.Repeat("Extraordinarily complicated terminology. ", 20)
		s := FallbackSuggestions("Vocabulary", content, now)

		assert.Equal(t, domain.ReadabilityLow, s.ReadabilityScore)
		assert.Contains(t, s.Improvements, "Consider using simpler words for better readability")
	})

	t.Run("medium words", func(t *testing.T) {
		s := FallbackSuggestions("Title", "words there. again here. final stuff.", now)
		assert.Equal(t, domain.ReadabilityMedium, s.ReadabilityScore)
	})
}
