package providers

import (
	"github.com/samber/do/v2"

	"github.com/notetakerapp/notetaker-server/internal/ai"
	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/logger"
	"github.com/notetakerapp/notetaker-server/internal/service"
	"github.com/notetakerapp/notetaker-server/internal/translation"
)

// ProvideExporter provides the export orchestrator.
func ProvideExporter(i do.Injector) (*export.Exporter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	exporter := export.New(export.Config{
		DocxEnabled:        cfg.Export.DocxEnabled,
		FailOnEmptyArchive: cfg.Export.FailOnEmptyArchive,
		FontPath:           cfg.Export.PDFFontPath,
		Logger:             log.Component("export"),
	})

	log.Info("Exporter ready",
		"docx", exporter.Available(export.FormatDOCX),
		"pdf_font", cfg.Export.PDFFontPath != "",
	)

	return exporter, nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, searchService, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, searchService, log.Logger), nil
}

// ProvideExportService provides the export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	exporter := do.MustInvoke[*export.Exporter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExportService(storeHandle.Store, exporter, log.Logger), nil
}

// ProvideAnalysisService provides the AI analysis service.
func ProvideAnalysisService(i do.Injector) (*service.AnalysisService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	analyzer := do.MustInvoke[*ai.Analyzer](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ttl := cfg.AI.SuggestionsTTL
	if ttl <= 0 {
		ttl = service.DefaultSuggestionsTTL
	}

	return service.NewAnalysisService(storeHandle.Store, analyzer, searchService, ttl, log.Logger), nil
}

// ProvideTranslationService provides the note translation service.
func ProvideTranslationService(i do.Injector) (*service.TranslationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	translator := do.MustInvoke[*translation.Translator](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTranslationService(storeHandle.Store, translator, searchService, log.Logger), nil
}
