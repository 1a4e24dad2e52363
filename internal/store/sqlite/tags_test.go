package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

func TestCreateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := &domain.Tag{Name: "work"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if tag.Color != domain.DefaultTagColor {
		t.Errorf("color = %q, want default", tag.Color)
	}

	got, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "work" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestCreateTag_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, &domain.Tag{Name: "work"}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	err := s.CreateTag(ctx, &domain.Tag{Name: "work", Color: "#000000"})
	if !errors.Is(err, store.ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Error("ErrTagExists should match the generic ErrAlreadyExists")
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetTag(context.Background(), 42); !errors.Is(err, store.ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}
}

func TestListTags_SortedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "apple", "mango"} {
		if err := s.CreateTag(ctx, &domain.Tag{Name: name}); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	if tags[0].Name != "apple" || tags[1].Name != "mango" || tags[2].Name != "zebra" {
		t.Errorf("unexpected order: %v", tags)
	}
}

func TestListTags_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	tags, err := s.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if tags == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestAddAndRemoveTagFromNote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := createTestNote(t, s, "Trip", "Pack bags")
	tag := &domain.Tag{Name: "travel"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := s.AddTagToNote(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToNote: %v", err)
	}

	got, err := s.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "travel" {
		t.Errorf("note tags = %+v", got.Tags)
	}

	if err := s.AddTagToNote(ctx, note.ID, tag.ID); !errors.Is(err, store.ErrTagAlreadyLinked) {
		t.Errorf("expected ErrTagAlreadyLinked, got %v", err)
	}

	if err := s.RemoveTagFromNote(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("RemoveTagFromNote: %v", err)
	}
	if err := s.RemoveTagFromNote(ctx, note.ID, tag.ID); !errors.Is(err, store.ErrTagNotLinked) {
		t.Errorf("expected ErrTagNotLinked, got %v", err)
	}
}

func TestAddTagToNote_MissingEntities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := createTestNote(t, s, "Trip", "Pack bags")
	tag := &domain.Tag{Name: "travel"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := s.AddTagToNote(ctx, 999, tag.ID); !errors.Is(err, store.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
	if err := s.AddTagToNote(ctx, note.ID, 999); !errors.Is(err, store.ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound, got %v", err)
	}
}

func TestDeleteNote_CascadesNoteTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note := createTestNote(t, s, "Trip", "Pack bags")
	tag := &domain.Tag{Name: "travel"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.AddTagToNote(ctx, note.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToNote: %v", err)
	}

	if err := s.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM note_tags`).Scan(&count); err != nil {
		t.Fatalf("count note_tags: %v", err)
	}
	if count != 0 {
		t.Errorf("expected note_tags to be cascaded, found %d rows", count)
	}
}
