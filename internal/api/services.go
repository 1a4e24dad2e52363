package api

import (
	"github.com/notetakerapp/notetaker-server/internal/service"
)

// Services groups the application services the handlers call.
type Services struct {
	Note        *service.NoteService
	Tag         *service.TagService
	Search      *service.SearchService
	Export      *service.ExportService
	Analysis    *service.AnalysisService
	Translation *service.TranslationService
}
