package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

func (s *Server) registerAIRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "analyzeNote",
		Method:      http.MethodPost,
		Path:        "/api/notes/{id}/analyze",
		Summary:     "Analyze note",
		Description: "Generates auto tags and writing suggestions and stores them on the note",
		Tags:        []string{"AI"},
		Middlewares: s.rateLimited(),
	}, s.handleAnalyzeNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/notes/{id}/suggestions",
		Summary:     "Get suggestions",
		Description: "Returns cached suggestions when fresh, otherwise generates new ones",
		Tags:        []string{"AI"},
		Middlewares: s.rateLimited(),
	}, s.handleGetSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "analyzeAllNotes",
		Method:      http.MethodPost,
		Path:        "/api/notes/analyze-all",
		Summary:     "Analyze all notes",
		Description: "Analyzes notes that were never analyzed or changed since, or all notes with force",
		Tags:        []string{"AI"},
		Middlewares: s.rateLimited(),
	}, s.handleAnalyzeAll)
}

// === DTOs ===

// AnalyzeResponse is the result of analyzing one note.
type AnalyzeResponse struct {
	AutoTags    []string           `json:"auto_tags" doc:"Tags generated for the note"`
	Suggestions domain.Suggestions `json:"suggestions" doc:"Writing suggestions"`
	Message     string             `json:"message" doc:"Human-readable summary"`
}

// AnalyzeOutput wraps the analyze response for Huma.
type AnalyzeOutput struct {
	Body AnalyzeResponse
}

// SuggestionsOutput wraps the suggestions response for Huma.
type SuggestionsOutput struct {
	Body *service.SuggestionsResult
}

// AnalyzeAllBody is the optional request body for analyze-all.
type AnalyzeAllBody struct {
	Force bool `json:"force,omitempty" doc:"Reanalyze every note"`
}

// AnalyzeAllInput wraps the analyze-all request for Huma.
type AnalyzeAllInput struct {
	Body *AnalyzeAllBody `required:"false"`
}

// AnalyzeAllOutput wraps the batch result for Huma.
type AnalyzeAllOutput struct {
	Body *service.BatchResult
}

// === Handlers ===

func (s *Server) handleAnalyzeNote(ctx context.Context, input *NoteIDInput) (*AnalyzeOutput, error) {
	result, err := s.services.Analysis.AnalyzeNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AnalyzeOutput{Body: AnalyzeResponse{
		AutoTags:    result.AutoTags,
		Suggestions: result.Suggestions,
		Message:     "Note analyzed successfully",
	}}, nil
}

func (s *Server) handleGetSuggestions(ctx context.Context, input *NoteIDInput) (*SuggestionsOutput, error) {
	result, err := s.services.Analysis.Suggestions(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SuggestionsOutput{Body: result}, nil
}

func (s *Server) handleAnalyzeAll(ctx context.Context, input *AnalyzeAllInput) (*AnalyzeAllOutput, error) {
	force := input.Body != nil && input.Body.Force

	result, err := s.services.Analysis.AnalyzeAll(ctx, force)
	if err != nil {
		return nil, err
	}
	return &AnalyzeAllOutput{Body: result}, nil
}
