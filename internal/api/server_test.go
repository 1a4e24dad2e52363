package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notetakerapp/notetaker-server/internal/ai"
	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/service"
	"github.com/notetakerapp/notetaker-server/internal/store/sqlite"
)

// testEnvelope is the success envelope with a typed payload.
type testEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// stubTranslator prefixes text, or fails every call.
type stubTranslator struct {
	fail bool
}

func (s *stubTranslator) Configured() bool { return true }

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	if s.fail {
		return "", errors.New("upstream down")
	}
	return "中文:" + text, nil
}

type testServer struct {
	*Server
	api        humatest.TestAPI
	store      *sqlite.Store
	translator *stubTranslator
}

type testOptions struct {
	opts        Options
	docxEnabled bool
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, testOptions{docxEnabled: true})
}

func setupTestServerWith(t *testing.T, to testOptions) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "notes.db"), logger)
	require.NoError(t, err)

	// A client without a token is disabled, so analysis uses the keyword fallback.
	analyzer := ai.NewAnalyzer(ai.NewClient(ai.ClientConfig{Logger: logger}), logger)
	translator := &stubTranslator{}
	exporter := export.New(export.Config{DocxEnabled: to.docxEnabled, Logger: logger})

	searchService := service.NewSearchService(nil, st, logger)
	services := &Services{
		Note:        service.NewNoteService(st, searchService, logger),
		Tag:         service.NewTagService(st, searchService, logger),
		Search:      searchService,
		Export:      service.NewExportService(st, exporter, logger),
		Analysis:    service.NewAnalysisService(st, analyzer, searchService, service.DefaultSuggestionsTTL, logger),
		Translation: service.NewTranslationService(st, translator, searchService, logger),
	}

	s := NewServer(st, services, to.opts, logger)

	t.Cleanup(func() {
		_ = s.Shutdown()
		_ = st.Close()
	})

	return &testServer{
		Server:     s,
		api:        humatest.Wrap(t, s.api),
		store:      st,
		translator: translator,
	}
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", body)
	return envelope
}

func (ts *testServer) createNote(t *testing.T, title, content string) domain.Note {
	t.Helper()

	resp := ts.api.Post("/api/notes", map[string]any{"title": title, "content": content})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	return decodeEnvelope[domain.Note](t, resp.Body.Bytes()).Data
}

func (ts *testServer) createTag(t *testing.T, name string) domain.Tag {
	t.Helper()

	resp := ts.api.Post("/api/tags", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	return decodeEnvelope[domain.Tag](t, resp.Body.Bytes()).Data
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "disabled", envelope.Data.Components["search"].Status)
}

func TestStatus(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/status")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[StatusResponse](t, resp.Body.Bytes())
	assert.Equal(t, "online", envelope.Data.API)
	assert.Equal(t, "connected", envelope.Data.Database)
	assert.Equal(t, "configured", envelope.Data.Translation)
	assert.True(t, envelope.Data.DocxSupported)
}

func TestStatus_DatabaseError(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/api/status")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[StatusResponse](t, resp.Body.Bytes())
	assert.Contains(t, envelope.Data.Database, "error: ")
}

func TestUnknownAPIPath(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestWebClient(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	ts := setupTestServerWith(t, testOptions{opts: Options{StaticDir: dir}, docxEnabled: true})

	t.Run("asset", func(t *testing.T) {
		resp := ts.api.Get("/app.js")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "console.log(1)", resp.Body.String())
	})

	t.Run("client route falls back to index", func(t *testing.T) {
		resp := ts.api.Get("/notes/42")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "app")
	})

	t.Run("api paths stay JSON", func(t *testing.T) {
		resp := ts.api.Get("/api/missing")
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")
	})
}
