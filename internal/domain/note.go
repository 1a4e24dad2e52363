// Package domain contains the core entities of the NoteTaker application.
package domain

import (
	"slices"
	"time"
)

// Field limits enforced at the API boundary and by AI tag cleaning.
const (
	MaxTitleLength   = 200
	MaxTagNameLength = 50
	MaxAutoTags      = 5
	MaxAutoTagLength = 20
)

// TranslationStatus records the outcome of the last translation attempt.
// An empty status means translation was never attempted.
type TranslationStatus string

const (
	TranslationNone       TranslationStatus = ""
	TranslationTranslated TranslationStatus = "translated"
	TranslationFailed     TranslationStatus = "failed"
)

// Note is a single user note.
//
// TitleZH and ContentZH are empty until the note has been translated. An empty
// value means "not yet translated", never "translated to nothing".
type Note struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	TitleZH           string            `json:"title_zh,omitempty"`
	ContentZH         string            `json:"content_zh,omitempty"`
	TranslationStatus TranslationStatus `json:"translation_status,omitempty"`
	AutoTags          []string          `json:"auto_tags"`
	AISuggestions     *Suggestions      `json:"ai_suggestions,omitempty"`
	LastAIAnalysis    *time.Time        `json:"last_ai_analysis,omitempty"`
	Tags              []Tag             `json:"tags"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// HasTranslation reports whether either translated field is present.
func (n *Note) HasTranslation() bool {
	return n.TitleZH != "" || n.ContentZH != ""
}

// Touch updates the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UTC()
}

// SuggestionsFresh reports whether cached suggestions are younger than ttl at now.
func (n *Note) SuggestionsFresh(now time.Time, ttl time.Duration) bool {
	if n.AISuggestions == nil || n.LastAIAnalysis == nil {
		return false
	}
	return now.Sub(*n.LastAIAnalysis) < ttl
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (n Note) Clone() Note {
	c := n
	c.AutoTags = slices.Clone(n.AutoTags)
	c.Tags = slices.Clone(n.Tags)
	if n.AISuggestions != nil {
		s := n.AISuggestions.Clone()
		c.AISuggestions = &s
	}
	if n.LastAIAnalysis != nil {
		t := *n.LastAIAnalysis
		c.LastAIAnalysis = &t
	}
	return c
}

// CloneNotes copies a slice of notes.
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i := range notes {
		out[i] = notes[i].Clone()
	}
	return out
}
