package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notetakerapp/notetaker-server/internal/export"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "API status",
		Description: "Reports database connectivity, translation configuration and DOCX support",
		Tags:        []string{"Health"},
	}, s.handleStatus)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, disabled, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	dbHealth := s.checkDatabase(ctx)
	components["database"] = dbHealth
	if dbHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	// A disabled index is not a failure, search falls back to SQL.
	searchHealth := s.checkSearchIndex()
	components["search"] = searchHealth
	if searchHealth.Status == "unhealthy" {
		overall = "unhealthy"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase verifies SQLite answers a query.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}

func (s *Server) checkSearchIndex() ComponentHealth {
	status, docs := s.services.Search.Health()
	health := ComponentHealth{Status: status}
	if status == "healthy" {
		health.Message = strconv.FormatUint(docs, 10) + " documents indexed"
	}
	return health
}

// StatusResponse reports what the API can do right now.
type StatusResponse struct {
	API           string `json:"api" doc:"Always online when the server answers"`
	Database      string `json:"database" doc:"connected, or error: followed by the cause"`
	Translation   string `json:"translation" doc:"configured or not_configured"`
	DocxSupported bool   `json:"docx_supported" doc:"Whether DOCX export is available"`
}

// StatusOutput wraps the status response for Huma.
type StatusOutput struct {
	Body StatusResponse
}

func (s *Server) handleStatus(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	resp := StatusResponse{
		API:           "online",
		Database:      "connected",
		Translation:   "not_configured",
		DocxSupported: s.services.Export.Available(export.FormatDOCX),
	}

	if err := s.db.Ping(ctx); err != nil {
		resp.Database = "error: " + err.Error()
	}
	if s.services.Translation.Configured() {
		resp.Translation = "configured"
	}

	return &StatusOutput{Body: resp}, nil
}
