// Package di provides dependency injection configuration for the NoteTaker server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/notetakerapp/notetaker-server/internal/ai"
	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/di/providers"
	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/logger"
	"github.com/notetakerapp/notetaker-server/internal/service"
	"github.com/notetakerapp/notetaker-server/internal/translation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// AI and translation
	do.Provide(injector, providers.ProvideAIClient)
	do.Provide(injector, providers.ProvideTranslationClient)
	do.Provide(injector, providers.ProvideAnalyzer)
	do.Provide(injector, providers.ProvideTranslator)

	// Export
	do.Provide(injector, providers.ProvideExporter)

	// Business services
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideAnalysisService)
	do.Provide(injector, providers.ProvideTranslationService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	_ = do.MustInvoke[*ai.Analyzer](injector)
	_ = do.MustInvoke[*translation.Translator](injector)
	_ = do.MustInvoke[*export.Exporter](injector)

	// Business services
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)
	_ = do.MustInvoke[*service.AnalysisService](injector)
	_ = do.MustInvoke[*service.TranslationService](injector)

	// Server
	_ = do.MustInvoke[*providers.APIServerHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger search reindex if needed
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
