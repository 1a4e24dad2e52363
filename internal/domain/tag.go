package domain

import "time"

// DefaultTagColor is assigned to tags created without a color.
const DefaultTagColor = "#6B73FF"

// Tag is a user-defined label attached to notes through the note_tags join table.
// Name is the identity: trimmed, lowercase and unique.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
