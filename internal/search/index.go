package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/notetakerapp/notetaker-server/internal/domain"
)

// NoteIndex wraps a Bleve index of notes.
//
// All methods are safe for concurrent use. The mutex keeps readers off the
// index while Rebuild swaps it.
type NoteIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the note index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Uses a discard logger if nil
	InMemory bool         // Keep the index in memory; used by tests and the CLI
}

// mappingVersion must be bumped whenever buildIndexMapping changes.
// A mismatch triggers a rebuild on startup.
const mappingVersion = "1"

// batchSize bounds memory use while bulk indexing.
const batchSize = 500

// NewNoteIndex opens the index under DataPath, creating it when missing.
// A corrupt index or one built with an older mapping is removed and recreated,
// leaving the caller to repopulate it with Reindex.
func NewNoteIndex(opts Options) (*NoteIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &NoteIndex{index: index, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "notes.bleve")
	versionPath := filepath.Join(opts.DataPath, "notes.bleve.version")

	needsRebuild := false
	indexExists := false
	if _, err := os.Stat(indexPath); err == nil {
		indexExists = true
	}

	if indexExists {
		existing, err := os.ReadFile(versionPath)
		switch {
		case err != nil:
			logger.Info("search index has no version file, rebuilding", "version", mappingVersion)
			needsRebuild = true
		case string(existing) != mappingVersion:
			logger.Info("search index mapping changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	var index bleve.Index
	if indexExists && !needsRebuild {
		var err error
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	}

	if index == nil {
		if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened search index", "path", indexPath)
	}

	return &NoteIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close releases the index.
func (s *NoteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Shutdown satisfies do.Shutdowner.
func (s *NoteIndex) Shutdown() error {
	return s.Close()
}

// IndexNote adds or replaces a single note.
func (s *NoteIndex) IndexNote(n *domain.Note) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := NoteToDocument(n)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexNotes adds or replaces notes in batches.
func (s *NoteIndex) IndexNotes(notes []domain.Note) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(notes)
}

func (s *NoteIndex) indexLocked(notes []domain.Note) error {
	for i := 0; i < len(notes); i += batchSize {
		end := min(i+batchSize, len(notes))

		batch := s.index.NewBatch()
		for j := i; j < end; j++ {
			doc := NoteToDocument(&notes[j])
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeleteNote removes a note from the index. Unknown IDs are ignored.
func (s *NoteIndex) DeleteNote(noteID int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(DocID(noteID))
}

// DocumentCount returns the number of indexed notes.
func (s *NoteIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Reindex replaces the index contents with notes.
// It holds the write lock for the whole swap, so searches wait until it finishes.
func (s *NoteIndex) Reindex(notes []domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := s.index.Close(); err != nil {
			return fmt.Errorf("close index: %w", err)
		}
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	if s.path == "" {
		_ = s.index.Close()
	}
	s.index = index

	if err := s.indexLocked(notes); err != nil {
		return err
	}

	s.logger.Info("rebuilt search index", "notes", len(notes))
	return nil
}
