// Package api provides the HTTP API server and handlers for the NoteTaker application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notetakerapp/notetaker-server/internal/ratelimit"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

// DefaultAIRequestsPerMinute is the per-client budget for the AI endpoints.
const DefaultAIRequestsPerMinute = 20

// Options configures the parts of the server that are not services.
type Options struct {
	// StaticDir holds a built single-page web client. Empty disables it.
	StaticDir   string
	CORSOrigins []string
	// AIRequestsPerMinute limits AI calls per client IP. Zero uses the default.
	AIRequestsPerMinute int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        store.Pinger
	services  *Services
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
	aiLimiter *ratelimit.KeyedRateLimiter
	staticDir string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(db store.Pinger, services *Services, opts Options, logger *slog.Logger) *Server {
	rpm := opts.AIRequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultAIRequestsPerMinute
	}

	s := &Server{
		db:        db,
		services:  services,
		router:    chi.NewRouter(),
		logger:    logger,
		aiLimiter: ratelimit.PerMinute(rpm),
		staticDir: opts.StaticDir,
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("NoteTaker API", "1.0.0")
	humaConfig.Info.Description = "Notes with tags, AI suggestions, Chinese translation and multi-format export."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Shutdown stops background work owned by the server.
func (s *Server) Shutdown() error {
	s.aiLimiter.Stop()
	return nil
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", ExportSkippedHeader},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerNoteRoutes()
	s.registerAIRoutes()
	s.registerTagRoutes()
	s.registerExportRoutes()

	s.router.NotFound(s.handleNotFound)
}
