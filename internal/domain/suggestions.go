package domain

import (
	"slices"
	"time"
)

// Limits on the number of entries kept for each suggestion list.
const (
	MaxImprovements          = 3
	MaxSuggestedEdits        = 3
	MaxCompletionSuggestions = 2
)

// Readability scores.
const (
	ReadabilityLow    = "low"
	ReadabilityMedium = "medium"
	ReadabilityHigh   = "high"
)

// DefaultTone is used when the model gives no tone analysis.
const DefaultTone = "neutral"

// Suggestions holds AI writing feedback for a note.
type Suggestions struct {
	Improvements          []string  `json:"improvements"`
	ToneAnalysis          string    `json:"tone_analysis"`
	ReadabilityScore      string    `json:"readability_score"`
	SuggestedEdits        []string  `json:"suggested_edits"`
	CompletionSuggestions []string  `json:"completion_suggestions"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// Normalize clamps list lengths and fills defaults in place.
func (s *Suggestions) Normalize() {
	s.Improvements = clampStrings(s.Improvements, MaxImprovements)
	s.SuggestedEdits = clampStrings(s.SuggestedEdits, MaxSuggestedEdits)
	s.CompletionSuggestions = clampStrings(s.CompletionSuggestions, MaxCompletionSuggestions)
	if s.ToneAnalysis == "" {
		s.ToneAnalysis = DefaultTone
	}
	switch s.ReadabilityScore {
	case ReadabilityLow, ReadabilityMedium, ReadabilityHigh:
	default:
		s.ReadabilityScore = ReadabilityMedium
	}
}

// Clone returns a deep copy.
func (s Suggestions) Clone() Suggestions {
	c := s
	c.Improvements = slices.Clone(s.Improvements)
	c.SuggestedEdits = slices.Clone(s.SuggestedEdits)
	c.CompletionSuggestions = slices.Clone(s.CompletionSuggestions)
	return c
}

func clampStrings(in []string, limit int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > limit {
		return in[:limit]
	}
	return in
}
