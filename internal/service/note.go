package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
	"github.com/notetakerapp/notetaker-server/internal/store"
	"github.com/notetakerapp/notetaker-server/internal/validation"
)

// NoteService orchestrates note CRUD and keeps the search index in sync.
type NoteService struct {
	notes     store.NoteRepository
	search    *SearchService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewNoteService creates a new note service.
func NewNoteService(notes store.NoteRepository, search *SearchService, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:     notes,
		search:    search,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateNoteRequest contains fields for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank"`
}

// UpdateNoteRequest contains optional field changes. Nil fields are kept.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitnil,notblank,max=200"`
	Content *string `json:"content,omitempty"`
}

// ListNotes returns all notes, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return s.notes.ListNotes(ctx, nil)
}

// GetNote returns a single note.
func (s *NoteService) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	return s.notes.GetNote(ctx, id)
}

// CreateNote validates and stores a new note.
func (s *NoteService) CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	n := &domain.Note{
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.notes.CreateNote(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.search.IndexNote(ctx, n)

	s.logger.Info("note created", "id", n.ID, "title", n.Title)
	return n, nil
}

// UpdateNote applies a partial update and bumps updated_at.
func (s *NoteService) UpdateNote(ctx context.Context, id int64, req UpdateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	update := store.NoteUpdate{Title: req.Title, Content: req.Content}
	if update.Empty() {
		return nil, domainerrors.Validation("No data provided")
	}

	n, err := s.notes.UpdateNote(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}

	s.search.IndexNote(ctx, n)

	s.logger.Info("note updated", "id", n.ID)
	return n, nil
}

// DeleteNote removes a note and its tag links.
func (s *NoteService) DeleteNote(ctx context.Context, id int64) error {
	if err := s.notes.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}

	s.search.DeleteNote(ctx, id)

	s.logger.Info("note deleted", "id", id)
	return nil
}

// SearchNotes returns notes matching q.
func (s *NoteService) SearchNotes(ctx context.Context, q string) ([]domain.Note, error) {
	return s.search.Search(ctx, q)
}
