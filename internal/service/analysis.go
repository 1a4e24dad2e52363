package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

// DefaultSuggestionsTTL is how long stored suggestions are served without regenerating.
const DefaultSuggestionsTTL = time.Hour

// NoteAnalyzer produces tags and writing suggestions. ai.Analyzer implements it.
type NoteAnalyzer interface {
	GenerateTags(ctx context.Context, title, content string) []string
	GenerateSuggestions(ctx context.Context, title, content string) domain.Suggestions
	Analyze(ctx context.Context, title, content string) ([]string, domain.Suggestions)
}

// AnalysisService runs AI analysis on notes and stores the results.
type AnalysisService struct {
	notes    store.NoteRepository
	analyzer NoteAnalyzer
	search   *SearchService
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalysisService creates a new analysis service. A non-positive ttl uses DefaultSuggestionsTTL.
func NewAnalysisService(notes store.NoteRepository, analyzer NoteAnalyzer, search *SearchService, ttl time.Duration, logger *slog.Logger) *AnalysisService {
	if ttl <= 0 {
		ttl = DefaultSuggestionsTTL
	}
	return &AnalysisService{
		notes:    notes,
		analyzer: analyzer,
		search:   search,
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AnalysisResult is the outcome of analyzing one note.
type AnalysisResult struct {
	AutoTags    []string           `json:"auto_tags"`
	Suggestions domain.Suggestions `json:"suggestions"`
}

// SuggestionsResult carries suggestions and whether they came from the cache.
type SuggestionsResult struct {
	Suggestions domain.Suggestions `json:"suggestions"`
	Cached      bool               `json:"cached"`
}

// BatchResult summarizes an analyze-all run.
type BatchResult struct {
	AnalyzedCount int      `json:"analyzed_count"`
	TotalNotes    int      `json:"total_notes"`
	Errors        []string `json:"errors"`
}

// AnalyzeNote generates tags and suggestions for a note and stores both.
func (s *AnalysisService) AnalyzeNote(ctx context.Context, id int64) (*AnalysisResult, error) {
	n, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.analyze(ctx, n)
	if err != nil {
		return nil, err
	}

	s.logger.Info("note analyzed", "id", id, "tags", len(result.AutoTags))
	return result, nil
}

func (s *AnalysisService) analyze(ctx context.Context, n *domain.Note) (*AnalysisResult, error) {
	tags, suggestions := s.analyzer.Analyze(ctx, n.Title, n.Content)

	if err := s.notes.SaveAnalysis(ctx, n.ID, tags, &suggestions, s.now()); err != nil {
		return nil, fmt.Errorf("save analysis for note %d: %w", n.ID, err)
	}

	n.AutoTags = tags
	s.search.IndexNote(ctx, n)

	return &AnalysisResult{AutoTags: tags, Suggestions: suggestions}, nil
}

// Suggestions returns stored suggestions younger than the TTL, or generates
// and stores fresh ones.
func (s *AnalysisService) Suggestions(ctx context.Context, id int64) (*SuggestionsResult, error) {
	n, err := s.notes.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if n.SuggestionsFresh(now, s.ttl) {
		return &SuggestionsResult{Suggestions: *n.AISuggestions, Cached: true}, nil
	}

	suggestions := s.analyzer.GenerateSuggestions(ctx, n.Title, n.Content)
	if err := s.notes.SaveSuggestions(ctx, id, &suggestions, now); err != nil {
		return nil, fmt.Errorf("save suggestions for note %d: %w", id, err)
	}

	return &SuggestionsResult{Suggestions: suggestions, Cached: false}, nil
}

// AnalyzeAll analyzes every note that was never analyzed or was edited since,
// or every note when force is set. Per-note failures are collected, not returned.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, force bool) (*BatchResult, error) {
	var (
		notes []domain.Note
		err   error
	)
	if force {
		notes, err = s.notes.ListNotes(ctx, nil)
	} else {
		notes, err = s.notes.NotesNeedingAnalysis(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}

	result := &BatchResult{TotalNotes: len(notes), Errors: []string{}}
	for i := range notes {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Note %d: %v", notes[i].ID, err))
			continue
		}
		if _, err := s.analyze(ctx, &notes[i]); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Note %d: %v", notes[i].ID, err))
			continue
		}
		result.AnalyzedCount++
	}

	s.logger.Info("batch analysis completed",
		"analyzed", result.AnalyzedCount,
		"total", result.TotalNotes,
		"errors", len(result.Errors),
		"force", force,
	)
	return result, nil
}
