package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Description: "Returns all tags ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/tags",
		Summary:       "Create tag",
		Description:   "Creates a new tag. Names are trimmed and lowercased.",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "addTagToNote",
		Method:      http.MethodPost,
		Path:        "/api/notes/{id}/tags",
		Summary:     "Add tag to note",
		Description: "Links an existing tag to a note",
		Tags:        []string{"Tags"},
	}, s.handleAddTagToNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeTagFromNote",
		Method:      http.MethodDelete,
		Path:        "/api/notes/{id}/tags/{tag_id}",
		Summary:     "Remove tag from note",
		Description: "Unlinks a tag from a note",
		Tags:        []string{"Tags"},
	}, s.handleRemoveTagFromNote)
}

// === DTOs ===

// TagsOutput wraps a list of tags for Huma.
type TagsOutput struct {
	Body []domain.Tag
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// CreateTagBody is the request body for creating a tag.
type CreateTagBody struct {
	Name  string `json:"name" doc:"Tag name"`
	Color string `json:"color,omitempty" doc:"Hex color such as #6B73FF"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagBody
}

// AddTagBody is the request body for linking a tag.
type AddTagBody struct {
	TagID int64 `json:"tag_id,omitempty" doc:"Tag ID"`
}

// AddTagInput wraps the add tag request for Huma.
type AddTagInput struct {
	ID   int64 `path:"id" doc:"Note ID"`
	Body AddTagBody
}

// RemoveTagInput identifies a note-tag link.
type RemoveTagInput struct {
	ID    int64 `path:"id" doc:"Note ID"`
	TagID int64 `path:"tag_id" doc:"Tag ID"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return &TagsOutput{Body: tags}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Tag.CreateTag(ctx, service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleAddTagToNote(ctx context.Context, input *AddTagInput) (*MessageOutput, error) {
	if err := s.services.Tag.AddTagToNote(ctx, input.ID, input.Body.TagID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag added to note"}}, nil
}

func (s *Server) handleRemoveTagFromNote(ctx context.Context, input *RemoveTagInput) (*MessageOutput, error) {
	if err := s.services.Tag.RemoveTagFromNote(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag removed from note"}}, nil
}
