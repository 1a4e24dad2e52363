package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/search"
	"github.com/notetakerapp/notetaker-server/internal/store/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "notes.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestIndex(t *testing.T) *search.NoteIndex {
	t.Helper()
	idx, err := search.NewNoteIndex(search.Options{InMemory: true, Logger: testLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

type services struct {
	store  *sqlite.Store
	index  *search.NoteIndex
	search *SearchService
	notes  *NoteService
	tags   *TagService
}

func newServices(t *testing.T, withIndex bool) *services {
	t.Helper()
	st := newTestStore(t)
	var idx *search.NoteIndex
	if withIndex {
		idx = newTestIndex(t)
	}
	ss := NewSearchService(idx, st, testLogger())
	return &services{
		store:  st,
		index:  idx,
		search: ss,
		notes:  NewNoteService(st, ss, testLogger()),
		tags:   NewTagService(st, ss, testLogger()),
	}
}

func mustCreateNote(t *testing.T, s *NoteService, title, content string) *domain.Note {
	t.Helper()
	n, err := s.CreateNote(context.Background(), CreateNoteRequest{Title: title, Content: content})
	require.NoError(t, err)
	return n
}

// fakeAnalyzer records calls and returns canned results.
type fakeAnalyzer struct {
	tags        []string
	suggestions domain.Suggestions
	calls       int
}

func (f *fakeAnalyzer) GenerateTags(context.Context, string, string) []string {
	f.calls++
	return f.tags
}

func (f *fakeAnalyzer) GenerateSuggestions(context.Context, string, string) domain.Suggestions {
	f.calls++
	return f.suggestions
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title, content string) ([]string, domain.Suggestions) {
	return f.GenerateTags(ctx, title, content), f.GenerateSuggestions(ctx, title, content)
}

// fakeTranslator maps inputs to outputs; inputs in fail return an error.
type fakeTranslator struct {
	out   map[string]string
	fail  map[string]bool
	calls int
}

func (f *fakeTranslator) Configured() bool { return true }

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.calls++
	if f.fail[text] {
		return "", errors.New("upstream down")
	}
	return f.out[text], nil
}
