package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notetakerapp/notetaker-server/internal/export"
	domainerrors "github.com/notetakerapp/notetaker-server/internal/errors"
	"github.com/notetakerapp/notetaker-server/internal/store"
	"github.com/notetakerapp/notetaker-server/internal/validation"
)

// ExportService loads notes and hands them to the exporter.
type ExportService struct {
	notes     store.NoteRepository
	exporter  *export.Exporter
	logger    *slog.Logger
	validator *validation.Validator
}

// NewExportService creates a new export service.
func NewExportService(notes store.NoteRepository, exporter *export.Exporter, logger *slog.Logger) *ExportService {
	return &ExportService{
		notes:     notes,
		exporter:  exporter,
		logger:    logger,
		validator: validation.New(),
	}
}

// ExportRequest selects the notes to export. No IDs means every note.
type ExportRequest struct {
	NoteIDs             []int64 `json:"note_ids,omitempty" validate:"omitempty,dive,gt=0"`
	IncludeTranslations bool    `json:"include_translations"`
}

// Export renders the selected notes in format.
//
// The format is checked before any note is read, so a bad format never
// touches the store. An empty selection is a not-found error.
func (s *ExportService) Export(ctx context.Context, format string, req ExportRequest) (*export.Artifact, error) {
	// 1. Format must be known and producible.
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if !s.exporter.Available(f) {
		return nil, domainerrors.CapabilityUnavailable(fmt.Sprintf("%s export not available", f))
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// 2. Load notes, newest first.
	notes, err := s.notes.ListNotes(ctx, req.NoteIDs)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, domainerrors.NotFound("No notes found")
	}

	// 3. Encode.
	artifact, err := s.exporter.ExportSingle(ctx, notes, string(f), req.IncludeTranslations)
	if err != nil {
		return nil, err
	}

	if len(artifact.Skipped) > 0 {
		s.logger.Warn("export archive incomplete", "format", f, "skipped", len(artifact.Skipped))
	}
	return artifact, nil
}

// Formats returns the export catalog with current availability.
func (s *ExportService) Formats() ([]export.CatalogEntry, error) {
	return s.exporter.Catalog()
}

// Available reports whether format can be produced.
func (s *ExportService) Available(f export.Format) bool {
	return s.exporter.Available(f)
}
