package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

func setupTestIndex(t *testing.T) *NoteIndex {
	t.Helper()

	index, err := NewNoteIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testNotes() []domain.Note {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Note{
		{ID: 1, Title: "Weekly meeting", Content: "Discuss the project roadmap", UpdatedAt: now},
		{ID: 2, Title: "Groceries", Content: "milk, eggs, bread", AutoTags: []string{"personal", "todo"}, UpdatedAt: now},
		{ID: 3, Title: "Kubernetes notes", Content: "pods and deployments", TitleZH: "库伯内特斯笔记", UpdatedAt: now,
			Tags: []domain.Tag{{ID: 9, Name: "follow-up"}}},
	}
}

func hitIDs(hits []Hit) []int64 {
	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.NoteID
	}
	return ids
}

func TestNewNoteIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNoteIndex_IndexNotes(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexNotes(testNotes()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestNoteIndex_IndexNoteReplaces(t *testing.T) {
	index := setupTestIndex(t)
	notes := testNotes()

	require.NoError(t, index.IndexNote(&notes[0]))
	notes[0].Title = "Retro"
	require.NoError(t, index.IndexNote(&notes[0]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := index.Search(context.Background(), "retro", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, hitIDs(hits))
}

func TestNoteIndex_DeleteNote(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNotes(testNotes()))

	require.NoError(t, index.DeleteNote(2))
	require.NoError(t, index.DeleteNote(404))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestNoteIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNotes(testNotes()))
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"title word", "meeting", []int64{1}},
		{"stemmed content", "deployment", []int64{3}},
		{"content word", "eggs", []int64{2}},
		{"auto tag", "todo", []int64{2}},
		{"user tag", "follow-up", []int64{3}},
		{"prefix", "kube", []int64{3}},
		{"chinese title", "笔记", []int64{3}},
		{"no match", "zebra", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := index.Search(ctx, tt.query, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hitIDs(hits))
		})
	}
}

func TestNoteIndex_SearchBlankQuery(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNotes(testNotes()))

	hits, err := index.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNoteIndex_SearchTitleOutranksContent(t *testing.T) {
	index := setupTestIndex(t)
	now := time.Now()
	require.NoError(t, index.IndexNotes([]domain.Note{
		{ID: 1, Title: "Misc", Content: "budget review next week", UpdatedAt: now},
		{ID: 2, Title: "Budget", Content: "numbers", UpdatedAt: now},
	}))

	hits, err := index.Search(context.Background(), "budget", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(2), hits[0].NoteID)
}

func TestNoteIndex_Reindex(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNotes(testNotes()))

	require.NoError(t, index.Reindex(testNotes()[:1]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestNoteIndex_InMemory(t *testing.T) {
	index, err := NewNoteIndex(Options{InMemory: true})
	require.NoError(t, err)
	defer index.Close() //nolint:errcheck // Test cleanup

	require.NoError(t, index.IndexNotes(testNotes()))
	require.NoError(t, index.Reindex(testNotes()))

	hits, err := index.Search(context.Background(), "groceries", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, hitIDs(hits))
}

func TestNewNoteIndex_RebuildsOnVersionMismatch(t *testing.T) {
	dir := t.TempDir()

	index, err := NewNoteIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexNotes(testNotes()))
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.bleve.version"), []byte("0"), 0o644))

	reopened, err := NewNoteIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck // Test cleanup

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	version, err := os.ReadFile(filepath.Join(dir, "notes.bleve.version"))
	require.NoError(t, err)
	assert.Equal(t, mappingVersion, string(version))
}

func TestNewNoteIndex_ReopensExisting(t *testing.T) {
	dir := t.TempDir()

	index, err := NewNoteIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexNotes(testNotes()))
	require.NoError(t, index.Close())

	reopened, err := NewNoteIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck // Test cleanup

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestNoteToDocument(t *testing.T) {
	n := testNotes()[2]
	doc := NoteToDocument(&n)

	assert.Equal(t, "3", doc.ID)
	assert.Equal(t, []string{"follow-up"}, doc.Tags)

	m := doc.ToMap()
	assert.Equal(t, "库伯内特斯笔记", m["title_zh"])
	assert.NotContains(t, m, "content_zh")
	assert.NotContains(t, m, "auto_tags")
}
