package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/translation"
)

func notePath(id int64, suffix ...string) string {
	return "/api/notes/" + strconv.FormatInt(id, 10) + strings.Join(suffix, "")
}

func TestCreateNote(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/notes", map[string]any{"title": "Groceries", "content": "milk, eggs"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[domain.Note](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.NotZero(t, envelope.Data.ID)
	assert.Equal(t, "Groceries", envelope.Data.Title)
	assert.Equal(t, "milk, eggs", envelope.Data.Content)
	assert.False(t, envelope.Data.CreatedAt.IsZero())
}

func TestCreateNote_Validation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing content", map[string]any{"title": "t"}},
		{"missing title", map[string]any{"content": "c"}},
		{"blank title", map[string]any{"title": "   ", "content": "c"}},
		{"blank content", map[string]any{"title": "t", "content": "  "}},
		{"title too long", map[string]any{"title": strings.Repeat("a", 201), "content": "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/notes", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

			envelope := decodeEnvelope[any](t, resp.Body.Bytes())
			assert.False(t, envelope.Success)
			assert.Equal(t, "VALIDATION", envelope.Code)
			assert.NotEmpty(t, envelope.Error)
		})
	}
}

func TestListNotes_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)

	first := ts.createNote(t, "first", "a")
	second := ts.createNote(t, "second", "b")

	// Editing the first note moves it to the top.
	resp := ts.api.Put(notePath(first.ID), map[string]any{"content": "edited"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/notes")
	require.Equal(t, http.StatusOK, resp.Code)

	notes := decodeEnvelope[[]domain.Note](t, resp.Body.Bytes()).Data
	require.Len(t, notes, 2)
	assert.Equal(t, first.ID, notes[0].ID)
	assert.Equal(t, second.ID, notes[1].ID)
}

func TestListNotes_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/notes")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"data":[]`)
}

func TestGetNote(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "title", "body")

	resp := ts.api.Get(notePath(n.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "title", decodeEnvelope[domain.Note](t, resp.Body.Bytes()).Data.Title)

	resp = ts.api.Get(notePath(9999))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", envelope.Code)
	assert.Equal(t, "Note not found", envelope.Error)
}

func TestGetNote_BadID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/notes/abc")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateNote(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "old", "body")

	resp := ts.api.Put(notePath(n.ID), map[string]any{"title": "new"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeEnvelope[domain.Note](t, resp.Body.Bytes()).Data
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(n.UpdatedAt))
}

func TestUpdateNote_Errors(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "old", "body")

	resp := ts.api.Put(notePath(n.ID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put(notePath(9999), map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteNote(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "gone", "soon")

	resp := ts.api.Delete(notePath(n.ID))
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())

	resp = ts.api.Get(notePath(n.ID))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete(notePath(n.ID))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchNotes(t *testing.T) {
	ts := setupTestServer(t)
	ts.createNote(t, "Trip to Kyoto", "temples and tea")
	ts.createNote(t, "Groceries", "milk")

	resp := ts.api.Get("/api/notes/search?q=kyoto")
	require.Equal(t, http.StatusOK, resp.Code)
	notes := decodeEnvelope[[]domain.Note](t, resp.Body.Bytes()).Data
	require.Len(t, notes, 1)
	assert.Equal(t, "Trip to Kyoto", notes[0].Title)

	resp = ts.api.Get("/api/notes/search?q=")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[[]domain.Note](t, resp.Body.Bytes()).Data)
}

func TestTranslateNote(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "Hello", "World")

	resp := ts.api.Post(notePath(n.ID, "/translate"))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := decodeEnvelope[TranslateResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "中文:Hello", data.TitleZH)
	assert.Equal(t, "中文:World", data.ContentZH)
	assert.Equal(t, domain.TranslationTranslated, data.TranslationStatus)
	require.NotNil(t, data.Note)
	assert.Equal(t, n.ID, data.Note.ID)
}

func TestTranslateNote_FailureIsNotAnError(t *testing.T) {
	ts := setupTestServer(t)
	ts.translator.fail = true
	n := ts.createNote(t, "Hello", "World")

	resp := ts.api.Post(notePath(n.ID, "/translate"))
	require.Equal(t, http.StatusOK, resp.Code)

	data := decodeEnvelope[TranslateResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, translation.FailedText, data.TitleZH)
	assert.Equal(t, domain.TranslationFailed, data.TranslationStatus)
}

func TestTranslateNote_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post(notePath(9999, "/translate"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
