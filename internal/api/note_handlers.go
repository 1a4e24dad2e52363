package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/notes",
		Summary:     "List notes",
		Description: "Returns all notes, most recently updated first",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/notes",
		Summary:       "Create note",
		Description:   "Creates a new note",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/notes/search",
		Summary:     "Search notes",
		Description: "Full-text search over titles, content and translations",
		Tags:        []string{"Notes"},
	}, s.handleSearchNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPut,
		Path:        "/api/notes/{id}",
		Summary:     "Update note",
		Description: "Updates the title and/or content of a note",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/api/notes/{id}",
		Summary:       "Delete note",
		Description:   "Deletes a note and its tag links",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "translateNote",
		Method:      http.MethodPost,
		Path:        "/api/notes/{id}/translate",
		Summary:     "Translate note",
		Description: "Translates the title and content to Chinese and stores the result",
		Tags:        []string{"Notes"},
	}, s.handleTranslateNote)
}

// === DTOs ===

// NoteIDInput identifies a note by path.
type NoteIDInput struct {
	ID int64 `path:"id" doc:"Note ID"`
}

// NoteOutput wraps a note for Huma.
type NoteOutput struct {
	Body *domain.Note
}

// NotesOutput wraps a list of notes for Huma.
type NotesOutput struct {
	Body []domain.Note
}

// CreateNoteBody is the request body for creating a note.
type CreateNoteBody struct {
	_       struct{} `json:"-" additionalProperties:"true"`
	Title   string   `json:"title" maxLength:"200" doc:"Note title"`
	Content string   `json:"content" doc:"Note body"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body CreateNoteBody
}

// UpdateNoteBody is the request body for updating a note. Omitted fields are left unchanged.
type UpdateNoteBody struct {
	_       struct{} `json:"-" additionalProperties:"true"`
	Title   *string  `json:"title,omitempty" maxLength:"200" doc:"New title"`
	Content *string  `json:"content,omitempty" doc:"New body"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   int64 `path:"id" doc:"Note ID"`
	Body UpdateNoteBody
}

// SearchNotesInput contains parameters for searching notes.
type SearchNotesInput struct {
	Query string `query:"q" doc:"Search text. Empty returns no results."`
}

// TranslateResponse is the result of translating a note.
type TranslateResponse struct {
	TitleZH           string                   `json:"title_zh" doc:"Translated title"`
	ContentZH         string                   `json:"content_zh" doc:"Translated content"`
	TranslationStatus domain.TranslationStatus `json:"translation_status" doc:"translated or failed"`
	Note              *domain.Note             `json:"note" doc:"The updated note"`
}

// TranslateOutput wraps the translate response for Huma.
type TranslateOutput struct {
	Body TranslateResponse
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, _ *struct{}) (*NotesOutput, error) {
	notes, err := s.services.Note.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return &NotesOutput{Body: notes}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	n, err := s.services.Note.CreateNote(ctx, service.CreateNoteRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	n, err := s.services.Note.GetNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	n, err := s.services.Note.UpdateNote(ctx, input.ID, service.UpdateNoteRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: n}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*struct{}, error) {
	if err := s.services.Note.DeleteNote(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, input *SearchNotesInput) (*NotesOutput, error) {
	notes, err := s.services.Note.SearchNotes(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &NotesOutput{Body: notes}, nil
}

func (s *Server) handleTranslateNote(ctx context.Context, input *NoteIDInput) (*TranslateOutput, error) {
	n, err := s.services.Translation.TranslateNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TranslateOutput{Body: TranslateResponse{
		TitleZH:           n.TitleZH,
		ContentZH:         n.ContentZH,
		TranslationStatus: n.TranslationStatus,
		Note:              n,
	}}, nil
}
