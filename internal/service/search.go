package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/search"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

// SearchService bridges the note index with the store. It keeps the index in
// step with note writes and answers queries, falling back to a SQL substring
// match when the index is disabled or finds nothing.
type SearchService struct {
	index  *search.NoteIndex
	notes  store.NoteRepository
	logger *slog.Logger
}

// NewSearchService creates a new search service. A nil index disables
// full-text search; queries then go straight to the store.
func NewSearchService(index *search.NoteIndex, notes store.NoteRepository, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		notes:  notes,
		logger: logger,
	}
}

// Enabled reports whether a full-text index is attached.
func (s *SearchService) Enabled() bool {
	return s != nil && s.index != nil
}

// Search returns notes matching q, newest first. A blank q returns an empty list.
func (s *SearchService) Search(ctx context.Context, q string) ([]domain.Note, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.Note{}, nil
	}

	if s.Enabled() {
		notes, err := s.searchIndex(ctx, q)
		if err != nil {
			s.logger.Warn("index search failed, using sql", "query", q, "error", err)
		} else if len(notes) > 0 {
			return notes, nil
		}
	}

	notes, err := s.notes.SearchNotes(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

func (s *SearchService) searchIndex(ctx context.Context, q string) ([]domain.Note, error) {
	hits, err := s.index.Search(ctx, q, search.DefaultLimit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.NoteID
	}

	// Load by ID so stale index entries for deleted notes drop out.
	return s.notes.ListNotes(ctx, ids)
}

// IndexNote adds or replaces a note in the index. Failures are logged, not
// returned: the store is the source of truth and search falls back to it.
func (s *SearchService) IndexNote(_ context.Context, n *domain.Note) {
	if !s.Enabled() || n == nil {
		return
	}
	if err := s.index.IndexNote(n); err != nil {
		s.logger.Warn("failed to index note", "id", n.ID, "error", err)
		return
	}
	s.logger.Debug("indexed note", "id", n.ID, "title", n.Title)
}

// RefreshNote re-reads a note and re-indexes it, e.g. after its tags change.
func (s *SearchService) RefreshNote(ctx context.Context, id int64) {
	if !s.Enabled() {
		return
	}
	n, err := s.notes.GetNote(ctx, id)
	if err != nil {
		s.logger.Warn("failed to load note for indexing", "id", id, "error", err)
		return
	}
	s.IndexNote(ctx, n)
}

// DeleteNote removes a note from the index.
func (s *SearchService) DeleteNote(_ context.Context, id int64) {
	if !s.Enabled() {
		return
	}
	if err := s.index.DeleteNote(id); err != nil {
		s.logger.Warn("failed to remove note from index", "id", id, "error", err)
	}
}

// Reindex rebuilds the index from every stored note.
func (s *SearchService) Reindex(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	notes, err := s.notes.ListNotes(ctx, nil)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	if err := s.index.Reindex(notes); err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	s.logger.Info("search index rebuilt", "notes", len(notes))
	return nil
}

// Health reports the index state: "healthy", "disabled" or "unhealthy".
func (s *SearchService) Health() (status string, docs uint64) {
	if !s.Enabled() {
		return "disabled", 0
	}
	n, err := s.index.DocumentCount()
	if err != nil {
		return "unhealthy", 0
	}
	return "healthy", n
}
