// Package search maintains a Bleve full-text index over notes.
// The index is a read-side accelerator; SQLite stays the source of truth.
package search

import (
	"strconv"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// NoteDocument is the indexed form of a note.
type NoteDocument struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	TitleZH   string   `json:"title_zh,omitempty"`
	ContentZH string   `json:"content_zh,omitempty"`
	AutoTags  []string `json:"auto_tags,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	UpdatedAt int64    `json:"updated_at"` // Unix seconds
}

// DocID returns the index key for a note ID.
func DocID(noteID int64) string {
	return strconv.FormatInt(noteID, 10)
}

// ParseDocID converts an index key back to a note ID.
func ParseDocID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// NoteToDocument converts a note into its index document.
func NoteToDocument(n *domain.Note) *NoteDocument {
	doc := &NoteDocument{
		ID:        DocID(n.ID),
		Title:     n.Title,
		Content:   n.Content,
		TitleZH:   n.TitleZH,
		ContentZH: n.ContentZH,
		AutoTags:  n.AutoTags,
		UpdatedAt: n.UpdatedAt.Unix(),
	}
	for _, t := range n.Tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

// ToMap converts the document to the field names used by the mapping.
func (d *NoteDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"content":    d.Content,
		"updated_at": float64(d.UpdatedAt),
	}
	if d.TitleZH != "" {
		m["title_zh"] = d.TitleZH
	}
	if d.ContentZH != "" {
		m["content_zh"] = d.ContentZH
	}
	if len(d.AutoTags) > 0 {
		m["auto_tags"] = d.AutoTags
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
