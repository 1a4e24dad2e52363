// Package main provides a tool to seed the database with demo notes and tags.
//
// Notes go through the note and tag services so names are normalized and
// validated exactly as they are over the API.
//
// Usage:
//
//	DATABASE_PATH=~/.notetaker/notetaker.db go run ./cmd/seed
//	DATABASE_PATH=~/.notetaker/notetaker.db go run ./cmd/seed --notes 25
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/service"
	"github.com/notetakerapp/notetaker-server/internal/store"
	"github.com/notetakerapp/notetaker-server/internal/store/sqlite"
)

var (
	noteCount = flag.Int("notes", 10, "Number of demo notes to create")
	seed      = flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
)

type demoTag struct {
	name  string
	color string
}

var demoTags = []demoTag{
	{"work", "#6B73FF"},
	{"personal", "#2ECC71"},
	{"ideas", "#F39C12"},
	{"reading", "#9B59B6"},
	{"todo", "#E74C3C"},
}

type demoNote struct {
	title   string
	content string
	tags    []string
}

var demoNotes = []demoNote{
	{"Weekly planning", "Review open pull requests.\nPrepare the roadmap update for Thursday.", []string{"work", "todo"}},
	{"Grocery list", "Milk, eggs, spinach, coffee beans and a loaf of sourdough.", []string{"personal", "todo"}},
	{"App idea: habit tracker", "A tiny app that nudges you once a day. Streaks, no accounts.", []string{"ideas"}},
	{"Book notes: Deep Work", "Schedule focus blocks. Treat shallow work as the exception.", []string{"reading"}},
	{"Retro takeaways", "Deploys were smoother. Flaky tests still cost us half a day.", []string{"work"}},
	{"Trip packing", "Passport, chargers, rain jacket, the good headphones.", []string{"personal"}},
	{"Blog post outline", "Intro on note-taking habits, three examples, a short conclusion.", []string{"ideas", "work"}},
	{"Reading queue", "The Pragmatic Programmer, Designing Data-Intensive Applications.", []string{"reading", "todo"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.notetaker/notetaker.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Search stays detached; the server reindexes an empty index on startup.
	search := service.NewSearchService(nil, s, logger)
	notes := service.NewNoteService(s, search, logger)
	tags := service.NewTagService(s, search, logger)

	tagIDs, err := seedTags(ctx, tags)
	if err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}
	fmt.Printf("Tags ready: %d\n", len(tagIDs))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	created, linked := 0, 0
	for i := range *noteCount {
		demo := demoNotes[rng.Intn(len(demoNotes))]
		title := demo.title
		if i >= len(demoNotes) {
			title = fmt.Sprintf("%s (%d)", demo.title, i+1)
		}

		note, err := notes.CreateNote(ctx, service.CreateNoteRequest{Title: title, Content: demo.content})
		if err != nil {
			log.Printf("Failed to create note %q: %v", title, err)
			continue
		}
		created++

		for _, name := range demo.tags {
			if err := tags.AddTagToNote(ctx, note.ID, tagIDs[name]); err != nil {
				log.Printf("Failed to tag note %d with %s: %v", note.ID, name, err)
				continue
			}
			linked++
		}
	}

	fmt.Printf("Created %d notes with %d tag links (seed %d)\n", created, linked, *seed)
	fmt.Println("\nSeeding complete!")
}

// seedTags creates the demo tags, reusing any that already exist.
func seedTags(ctx context.Context, tags *service.TagService) (map[string]int64, error) {
	existing, err := tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int64, len(demoTags))
	for _, t := range existing {
		ids[t.Name] = t.ID
	}

	for _, dt := range demoTags {
		if _, ok := ids[dt.name]; ok {
			continue
		}
		t, err := tags.CreateTag(ctx, service.CreateTagRequest{Name: dt.name, Color: dt.color})
		if errors.Is(err, store.ErrTagExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create tag %s: %w", dt.name, err)
		}
		ids[t.Name] = t.ID
	}
	return ids, nil
}
