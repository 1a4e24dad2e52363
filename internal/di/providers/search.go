package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/logger"
	"github.com/notetakerapp/notetaker-server/internal/search"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// NoteIndex is nil when search is disabled.
type SearchIndexHandle struct {
	*search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.NoteIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
// A failure to open the index disables search instead of failing startup.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Search index disabled by configuration, using SQL search")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewNoteIndex(search.Options{
		DataPath: cfg.App.DataDir,
		Logger:   log.Component("search"),
	})
	if err != nil {
		log.Warn("Search index unavailable, using SQL search", "error", err)
		return &SearchIndexHandle{}, nil
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{NoteIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.NoteIndex, storeHandle.Store, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when notes exist.
// Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	status, docCount := searchService.Health()
	if status != "healthy" || docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountNotes(ctx)
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but notes exist, triggering initial reindex",
		"note_count", count,
	)

	go func() {
		if err := searchService.Reindex(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		}
	}()
}
