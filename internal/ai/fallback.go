package ai

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// GeneralTag is returned when no keyword matches.
const GeneralTag = "general"

const maxFallbackTags = 3

// keywordTags is checked in order; the first three matching tags win.
var keywordTags = []struct {
	tag   string
	words []string
}{
	{"work", []string{"work", "job", "office", "meeting", "project", "task"}},
	{"personal", []string{"personal", "family", "home", "life"}},
	{"todo", []string{"todo", "task", "remember", "need to", "must"}},
	{"important", []string{"important", "urgent", "critical", "priority"}},
	{"idea", []string{"idea", "thought", "concept", "brainstorm"}},
	{"learning", []string{"learn", "study", "course", "education", "tutorial"}},
}

// FallbackTags derives tags from substring keyword matches.
func FallbackTags(title, content string) []string {
	text := strings.ToLower(title + " " + content)

	tags := make([]string, 0, maxFallbackTags)
	for _, kw := range keywordTags {
		for _, w := range kw.words {
			if strings.Contains(text, w) {
				tags = append(tags, kw.tag)
				break
			}
		}
		if len(tags) >= maxFallbackTags {
			break
		}
	}

	if len(tags) == 0 {
		return []string{GeneralTag}
	}
	return tags
}

// FallbackSuggestions produces suggestions from word and sentence counts.
func FallbackSuggestions(title, content string, now time.Time) domain.Suggestions {
	s := domain.Suggestions{
		Improvements:          []string{},
		ToneAnalysis:          domain.DefaultTone,
		ReadabilityScore:      domain.ReadabilityMedium,
		SuggestedEdits:        []string{},
		CompletionSuggestions: []string{},
		GeneratedAt:           now,
	}

	words := strings.Fields(content)

	if len(words) < 50 {
		s.Improvements = append(s.Improvements, "Consider expanding your note with more details")
		s.CompletionSuggestions = append(s.CompletionSuggestions, "Add examples or specific details")
	}

	if utf8.RuneCountInString(title) < 5 {
		s.Improvements = append(s.Improvements, "Consider adding a more descriptive title")
	}

	if len(strings.Split(content, ".")) < 3 {
		s.SuggestedEdits = append(s.SuggestedEdits, "Break content into shorter sentences")
	}

	letters := 0
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}
	avg := float64(letters) / float64(max(len(words), 1))
	switch {
	case avg > 6:
		s.ReadabilityScore = domain.ReadabilityLow
		s.Improvements = append(s.Improvements, "Consider using simpler words for better readability")
	case avg < 4:
		s.ReadabilityScore = domain.ReadabilityHigh
	}

	return s
}
