package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

// ExportSkippedHeader lists the formats left out of an "all" archive.
const ExportSkippedHeader = "X-Export-Skipped"

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listExportFormats",
		Method:      http.MethodGet,
		Path:        "/api/export/formats",
		Summary:     "List export formats",
		Description: "Returns the export format catalog with current availability",
		Tags:        []string{"Export"},
	}, s.handleListExportFormats)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportNotes",
		Method:      http.MethodPost,
		Path:        "/api/export/{format}",
		Summary:     "Export notes",
		Description: "Renders notes as Markdown, PDF, DOCX, or a ZIP of all three and returns the file",
		Tags:        []string{"Export"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Exported file",
				Content: map[string]*huma.MediaType{
					export.FormatMarkdown.MimeType(): {},
					export.FormatPDF.MimeType():      {},
					export.FormatDOCX.MimeType():     {},
					export.FormatAll.MimeType():      {},
				},
			},
		},
	}, s.handleExport)
}

// === DTOs ===

// ExportFormatsOutput wraps the format catalog for Huma.
type ExportFormatsOutput struct {
	Body []export.CatalogEntry
}

// ExportBody is the optional request body for an export.
type ExportBody struct {
	NoteIDs             []int64 `json:"note_ids,omitempty" doc:"Notes to export. Empty exports every note."`
	IncludeTranslations *bool   `json:"include_translations,omitempty" doc:"Include Chinese translations (default true)"`
}

// ExportInput wraps the export request for Huma.
type ExportInput struct {
	Format string      `path:"format" doc:"markdown, pdf, docx or all"`
	Body   *ExportBody `required:"false"`
}

// === Handlers ===

func (s *Server) handleListExportFormats(_ context.Context, _ *struct{}) (*ExportFormatsOutput, error) {
	formats, err := s.services.Export.Formats()
	if err != nil {
		return nil, err
	}
	return &ExportFormatsOutput{Body: formats}, nil
}

func (s *Server) handleExport(ctx context.Context, input *ExportInput) (*huma.StreamResponse, error) {
	req := service.ExportRequest{IncludeTranslations: true}
	if input.Body != nil {
		req.NoteIDs = input.Body.NoteIDs
		if input.Body.IncludeTranslations != nil {
			req.IncludeTranslations = *input.Body.IncludeTranslations
		}
	}

	artifact, err := s.services.Export.Export(ctx, input.Format, req)
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			hctx.SetHeader("Content-Type", artifact.MimeType)
			hctx.SetHeader("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
			hctx.SetHeader("Content-Length", strconv.Itoa(len(artifact.Data)))
			if len(artifact.Skipped) > 0 {
				skipped := make([]string, len(artifact.Skipped))
				for i, sf := range artifact.Skipped {
					skipped[i] = string(sf.Format)
				}
				hctx.SetHeader(ExportSkippedHeader, strings.Join(skipped, ","))
			}
			hctx.SetStatus(http.StatusOK)

			if _, err := hctx.BodyWriter().Write(artifact.Data); err != nil {
				s.logger.Warn("failed to write export", "filename", artifact.Filename, "error", err)
			}
		},
	}, nil
}
