package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

func TestCreateTag_Normalizes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/tags", map[string]any{"name": "  Work  "})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	tag := decodeEnvelope[domain.Tag](t, resp.Body.Bytes()).Data
	assert.Equal(t, "work", tag.Name)
	assert.Equal(t, domain.DefaultTagColor, tag.Color)
}

func TestCreateTag_Errors(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "work")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"empty name", map[string]any{"name": "   "}, http.StatusBadRequest, "VALIDATION"},
		{"bad color", map[string]any{"name": "home", "color": "red"}, http.StatusBadRequest, "VALIDATION"},
		{"duplicate", map[string]any{"name": "WORK"}, http.StatusConflict, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/tags", tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, tt.wantCode, decodeEnvelope[any](t, resp.Body.Bytes()).Code)
		})
	}
}

func TestListTags_ByName(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTag(t, "zeta")
	ts.createTag(t, "alpha")

	resp := ts.api.Get("/api/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	tags := decodeEnvelope[[]domain.Tag](t, resp.Body.Bytes()).Data
	require.Len(t, tags, 2)
	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, "zeta", tags[1].Name)
}

func TestNoteTags(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "plan", "ship it")
	tag := ts.createTag(t, "work")

	resp := ts.api.Post(notePath(n.ID, "/tags"), map[string]any{"tag_id": tag.ID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Tag added to note", decodeEnvelope[MessageResponse](t, resp.Body.Bytes()).Data.Message)

	resp = ts.api.Get(notePath(n.ID))
	got := decodeEnvelope[domain.Note](t, resp.Body.Bytes()).Data
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "work", got.Tags[0].Name)

	// Linking twice conflicts.
	resp = ts.api.Post(notePath(n.ID, "/tags"), map[string]any{"tag_id": tag.ID})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = ts.api.Delete(notePath(n.ID, "/tags/", strconv.FormatInt(tag.ID, 10)))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Unlinking twice is not found.
	resp = ts.api.Delete(notePath(n.ID, "/tags/", strconv.FormatInt(tag.ID, 10)))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddTagToNote_Errors(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "plan", "ship it")
	tag := ts.createTag(t, "work")

	tests := []struct {
		name       string
		noteID     int64
		body       map[string]any
		wantStatus int
	}{
		{"missing tag id", n.ID, map[string]any{}, http.StatusBadRequest},
		{"unknown note", 9999, map[string]any{"tag_id": tag.ID}, http.StatusNotFound},
		{"unknown tag", n.ID, map[string]any{"tag_id": 9999}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post(notePath(tt.noteID, "/tags"), tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
		})
	}
}
