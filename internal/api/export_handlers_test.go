package api

import (
	"archive/zip"
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/export"
)

func TestExport_Markdown(t *testing.T) {
	ts := setupTestServer(t)
	ts.createNote(t, "Groceries", "milk")

	resp := ts.api.Post("/api/export/markdown")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, export.MimeMarkdown, resp.Header().Get("Content-Type"))
	disposition := resp.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="`), disposition)
	assert.Contains(t, disposition, ".md")

	body := resp.Body.String()
	assert.Contains(t, body, "# NoteTaker Export")
	assert.Contains(t, body, "## 1. Groceries")
}

func TestExport_Translations(t *testing.T) {
	ts := setupTestServer(t)
	n := ts.createNote(t, "Hello", "World")
	resp := ts.api.Post(notePath(n.ID, "/translate"))
	require.Equal(t, http.StatusOK, resp.Code)

	// Translations are included by default.
	resp = ts.api.Post("/api/export/markdown")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "### Chinese Translation")

	resp = ts.api.Post("/api/export/markdown", map[string]any{"include_translations": false})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "### Chinese Translation")
}

func TestExport_SelectedNotes(t *testing.T) {
	ts := setupTestServer(t)
	keep := ts.createNote(t, "keep", "a")
	ts.createNote(t, "skip", "b")

	resp := ts.api.Post("/api/export/markdown", map[string]any{"note_ids": []int64{keep.ID}})
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, "keep")
	assert.NotContains(t, body, "skip")
}

func TestExport_PDF(t *testing.T) {
	ts := setupTestServer(t)
	ts.createNote(t, "Report", "numbers")

	resp := ts.api.Post("/api/export/pdf")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, export.MimePDF, resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")))
}

func TestExport_All(t *testing.T) {
	ts := setupTestServer(t)
	ts.createNote(t, "Bundle", "everything")

	resp := ts.api.Post("/api/export/all")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, export.MimeZIP, resp.Header().Get("Content-Type"))
	assert.Empty(t, resp.Header().Get(ExportSkippedHeader))

	data := resp.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 3)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name        string
		docxEnabled bool
		withNote    bool
		path        string
		body        any
		wantStatus  int
		wantCode    string
	}{
		{"unsupported format", true, true, "/api/export/rtf", nil, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{"no notes", true, false, "/api/export/markdown", nil, http.StatusNotFound, "NOT_FOUND"},
		{"unknown ids", true, true, "/api/export/markdown", map[string]any{"note_ids": []int64{9999}}, http.StatusNotFound, "NOT_FOUND"},
		{"bad id", true, true, "/api/export/markdown", map[string]any{"note_ids": []int64{0}}, http.StatusBadRequest, "VALIDATION"},
		{"docx disabled", false, true, "/api/export/docx", nil, http.StatusNotImplemented, "CAPABILITY_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServerWith(t, testOptions{docxEnabled: tt.docxEnabled})
			if tt.withNote {
				ts.createNote(t, "note", "body")
			}

			var args []any
			if tt.body != nil {
				args = append(args, tt.body)
			}
			resp := ts.api.Post(tt.path, args...)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			envelope := decodeEnvelope[any](t, resp.Body.Bytes())
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.wantCode, envelope.Code)
		})
	}
}

func TestExportFormats(t *testing.T) {
	ts := setupTestServerWith(t, testOptions{docxEnabled: false})

	resp := ts.api.Get("/api/export/formats")
	require.Equal(t, http.StatusOK, resp.Code)

	formats := decodeEnvelope[[]export.CatalogEntry](t, resp.Body.Bytes()).Data
	require.NotEmpty(t, formats)

	available := map[export.Format]bool{}
	for _, f := range formats {
		available[f.ID] = f.Available
	}
	assert.True(t, available[export.FormatMarkdown])
	assert.False(t, available[export.FormatDOCX])
}
