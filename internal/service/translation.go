package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/store"
	"github.com/notetakerapp/notetaker-server/internal/translation"
)

// TextTranslator translates text to Chinese. translation.Translator implements it.
type TextTranslator interface {
	Configured() bool
	Translate(ctx context.Context, text string) (string, error)
}

// TranslationService translates notes and stores the result.
type TranslationService struct {
	notes      store.NoteRepository
	translator TextTranslator
	search     *SearchService
	logger     *slog.Logger
}

// NewTranslationService creates a new translation service.
func NewTranslationService(notes store.NoteRepository, translator TextTranslator, search *SearchService, logger *slog.Logger) *TranslationService {
	return &TranslationService{
		notes:      notes,
		translator: translator,
		search:     search,
		logger:     logger,
	}
}

// Configured reports whether translation credentials are present.
func (s *TranslationService) Configured() bool {
	return s.translator != nil && s.translator.Configured()
}

// TranslateNote translates a note's title and content and stores them.
//
// A failed field is stored as translation.FailedText and the status is set
// to failed; the call itself still succeeds.
func (s *TranslationService) TranslateNote(ctx context.Context, id int64) (*domain.Note, error) {
	n, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	status := domain.TranslationTranslated

	titleZH, err := s.translator.Translate(ctx, n.Title)
	if err != nil {
		s.logger.Warn("title translation failed", "id", id, "error", err)
		titleZH = translation.FailedText
		status = domain.TranslationFailed
	}

	contentZH, err := s.translator.Translate(ctx, n.Content)
	if err != nil {
		s.logger.Warn("content translation failed", "id", id, "error", err)
		contentZH = translation.FailedText
		status = domain.TranslationFailed
	}

	if err := s.notes.SaveTranslation(ctx, id, titleZH, contentZH, status); err != nil {
		return nil, fmt.Errorf("save translation for note %d: %w", id, err)
	}

	// SaveTranslation bumps updated_at, so read the stored note back.
	n, err = s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload note %d: %w", id, err)
	}
	s.search.IndexNote(ctx, n)

	s.logger.Info("note translated", "id", id, "status", status)
	return n, nil
}
