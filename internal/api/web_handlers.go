package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/notetakerapp/notetaker-server/internal/http/response"
)

// handleNotFound serves the web client for unknown non-API paths and a JSON
// 404 for everything else.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if s.staticDir == "" || isAPIPath(r.URL.Path) || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		response.NotFound(w, "Resource not found", s.logger)
		return
	}
	s.serveWebClient(w, r)
}

// serveWebClient serves files from the static directory. Paths that do not
// name a file get index.html so client-side routes work on reload.
func (s *Server) serveWebClient(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.staticDir, filepath.FromSlash(name))

	info, err := os.Stat(full)
	switch {
	case err == nil && !info.IsDir():
		http.ServeFile(w, r, full)
		return
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		s.logger.Error("Failed to stat static file", "path", name, "error", err)
		response.InternalError(w, "Internal Server Error", s.logger)
		return
	}

	index := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		response.NotFound(w, "Resource not found", s.logger)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
