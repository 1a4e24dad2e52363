package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notetakerapp/notetaker-server/internal/color"
	"github.com/notetakerapp/notetaker-server/internal/domain"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
	"github.com/notetakerapp/notetaker-server/internal/store"
	"github.com/notetakerapp/notetaker-server/internal/util"
	"github.com/notetakerapp/notetaker-server/internal/validation"
)

// TagService orchestrates tags and their links to notes.
// Tag names are the identity: trimmed, lowercased and unique.
type TagService struct {
	tags      store.TagRepository
	search    *SearchService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(tags store.TagRepository, search *SearchService, logger *slog.Logger) *TagService {
	return &TagService{
		tags:      tags,
		search:    search,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,tagcolor"`
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.ListTags(ctx)
}

// CreateTag normalizes the name and stores a new tag.
// Returns store.ErrTagExists when the normalized name is taken.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	// 1. Normalize before validating so "  " counts as empty.
	req.Name = util.NormalizeTagName(req.Name)
	if req.Name == "" {
		return nil, domainerrors.Validation("Tag name is required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// 2. Canonicalize the color.
	tagColor, err := color.Normalize(req.Color, domain.DefaultTagColor)
	if err != nil {
		return nil, domainerrors.Validationf("invalid color: %v", err)
	}

	// 3. Insert; the UNIQUE constraint reports duplicates.
	t := &domain.Tag{Name: req.Name, Color: tagColor}
	if err := s.tags.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", t.ID, "name", t.Name, "color", t.Color)
	return t, nil
}

// AddTagToNote links an existing tag to a note.
func (s *TagService) AddTagToNote(ctx context.Context, noteID, tagID int64) error {
	if tagID <= 0 {
		return domainerrors.Validation("Tag ID is required")
	}
	if err := s.tags.AddTagToNote(ctx, noteID, tagID); err != nil {
		return fmt.Errorf("add tag %d to note %d: %w", tagID, noteID, err)
	}

	s.search.RefreshNote(ctx, noteID)

	s.logger.Info("tag added to note", "note_id", noteID, "tag_id", tagID)
	return nil
}

// RemoveTagFromNote unlinks a tag from a note.
func (s *TagService) RemoveTagFromNote(ctx context.Context, noteID, tagID int64) error {
	if err := s.tags.RemoveTagFromNote(ctx, noteID, tagID); err != nil {
		return fmt.Errorf("remove tag %d from note %d: %w", tagID, noteID, err)
	}

	s.search.RefreshNote(ctx, noteID)

	s.logger.Info("tag removed from note", "note_id", noteID, "tag_id", tagID)
	return nil
}
