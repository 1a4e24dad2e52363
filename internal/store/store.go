// Package store defines the persistence contracts used by the services.
package store

import (
	"context"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// NoteUpdate holds optional field changes for UpdateNote. Nil fields are left untouched.
type NoteUpdate struct {
	Title   *string
	Content *string
}

// Empty reports whether the update changes nothing.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}

// NoteRepository persists notes and their AI and translation results.
type NoteRepository interface {
	// ListNotes returns notes ordered by updated_at descending.
	// A non-empty ids restricts the result to those notes; unknown IDs are ignored.
	ListNotes(ctx context.Context, ids []int64) ([]domain.Note, error)
	GetNote(ctx context.Context, id int64) (*domain.Note, error)
	CreateNote(ctx context.Context, note *domain.Note) error
	UpdateNote(ctx context.Context, id int64, update NoteUpdate) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	SearchNotes(ctx context.Context, query string) ([]domain.Note, error)
	CountNotes(ctx context.Context) (int, error)

	// NotesNeedingAnalysis returns notes never analyzed or edited since their last analysis.
	NotesNeedingAnalysis(ctx context.Context) ([]domain.Note, error)
	SaveAnalysis(ctx context.Context, id int64, autoTags []string, suggestions *domain.Suggestions, at time.Time) error
	SaveSuggestions(ctx context.Context, id int64, suggestions *domain.Suggestions, at time.Time) error
	SaveTranslation(ctx context.Context, id int64, titleZH, contentZH string, status domain.TranslationStatus) error
}

// TagRepository persists tags and the note_tags join table.
type TagRepository interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	CreateTag(ctx context.Context, tag *domain.Tag) error
	AddTagToNote(ctx context.Context, noteID, tagID int64) error
	RemoveTagFromNote(ctx context.Context, noteID, tagID int64) error
}

// Pinger reports whether the backing database answers queries.
type Pinger interface {
	Ping(ctx context.Context) error
}
