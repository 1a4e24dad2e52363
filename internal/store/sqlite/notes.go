package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `id, title, content, title_zh, content_zh, translation_status,
	auto_tags, ai_suggestions, last_ai_analysis, created_at, updated_at`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Note.
// Tags are left empty; the caller attaches them with loadNoteTags.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		titleZH        sql.NullString
		contentZH      sql.NullString
		status         string
		autoTags       string
		suggestions    sql.NullString
		lastAIAnalysis sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&titleZH,
		&contentZH,
		&status,
		&autoTags,
		&suggestions,
		&lastAIAnalysis,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.TitleZH = titleZH.String
	n.ContentZH = contentZH.String
	n.TranslationStatus = domain.TranslationStatus(status)

	n.AutoTags = []string{}
	if autoTags != "" {
		if err := json.Unmarshal([]byte(autoTags), &n.AutoTags); err != nil {
			return nil, fmt.Errorf("decode auto_tags for note %d: %w", n.ID, err)
		}
	}

	if suggestions.Valid && suggestions.String != "" {
		var sg domain.Suggestions
		if err := json.Unmarshal([]byte(suggestions.String), &sg); err != nil {
			return nil, fmt.Errorf("decode ai_suggestions for note %d: %w", n.ID, err)
		}
		n.AISuggestions = &sg
	}

	n.LastAIAnalysis, err = parseNullableTime(lastAIAnalysis)
	if err != nil {
		return nil, err
	}
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	n.Tags = []domain.Tag{}
	return &n, nil
}

// queryNotes runs a note SELECT and attaches manual tags to every result.
func (s *Store) queryNotes(ctx context.Context, query string, args ...any) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadNoteTags(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNotes returns notes ordered by updated_at descending, optionally restricted to ids.
func (s *Store) ListNotes(ctx context.Context, ids []int64) ([]domain.Note, error) {
	if len(ids) == 0 {
		return s.queryNotes(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY updated_at DESC, id DESC`)
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id IN (`+placeholders(len(ids))+`)
		ORDER BY updated_at DESC, id DESC`, args...)
}

// GetNote retrieves a note by its ID.
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *Store) GetNote(ctx context.Context, id int64) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	notes := []domain.Note{*n}
	if err := s.loadNoteTags(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// CreateNote inserts a new note and fills in its ID and timestamps.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	now := s.now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	if n.AutoTags == nil {
		n.AutoTags = []string{}
	}
	if n.Tags == nil {
		n.Tags = []domain.Tag{}
	}

	autoTags, err := json.Marshal(n.AutoTags)
	if err != nil {
		return fmt.Errorf("encode auto_tags: %w", err)
	}
	suggestions, err := encodeSuggestions(n.AISuggestions)
	if err != nil {
		return err
	}

	var lastAnalysis sql.NullString
	if n.LastAIAnalysis != nil {
		lastAnalysis = nullString(formatTime(*n.LastAIAnalysis))
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (title, content, title_zh, content_zh, translation_status,
			auto_tags, ai_suggestions, last_ai_analysis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Title,
		n.Content,
		nullString(n.TitleZH),
		nullString(n.ContentZH),
		string(n.TranslationStatus),
		string(autoTags),
		suggestions,
		lastAnalysis,
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	n.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("note id: %w", err)
	}
	return nil
}

// UpdateNote applies the non-nil fields of update and bumps updated_at.
// The read and write share one transaction so concurrent edits cannot interleave.
func (s *Store) UpdateNote(ctx context.Context, id int64, update store.NoteUpdate) (*domain.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	n, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		n.Title = *update.Title
	}
	if update.Content != nil {
		n.Content = *update.Content
	}
	n.UpdatedAt = s.now()

	if _, err := tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Content, formatTime(n.UpdatedAt), id,
	); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	notes := []domain.Note{*n}
	if err := s.loadNoteTags(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// DeleteNote removes a note. Its note_tags rows go with it via ON DELETE CASCADE.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireAffected(res, store.ErrNoteNotFound)
}

// SearchNotes matches title or content against a substring, newest first.
func (s *Store) SearchNotes(ctx context.Context, query string) ([]domain.Note, error) {
	pattern := "%" + escapeLike(query) + "%"
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC, id DESC`,
		pattern, pattern)
}

// CountNotes returns the number of stored notes.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// NotesNeedingAnalysis returns notes never analyzed or edited after their last analysis.
func (s *Store) NotesNeedingAnalysis(ctx context.Context) ([]domain.Note, error) {
	return s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes
		WHERE last_ai_analysis IS NULL OR updated_at > last_ai_analysis
		ORDER BY updated_at DESC, id DESC`)
}

// SaveAnalysis stores auto tags and suggestions from an AI pass.
// updated_at is left alone so the note does not look edited.
func (s *Store) SaveAnalysis(ctx context.Context, id int64, autoTags []string, suggestions *domain.Suggestions, at time.Time) error {
	if autoTags == nil {
		autoTags = []string{}
	}
	tags, err := json.Marshal(autoTags)
	if err != nil {
		return fmt.Errorf("encode auto_tags: %w", err)
	}
	sg, err := encodeSuggestions(suggestions)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET auto_tags = ?, ai_suggestions = ?, last_ai_analysis = ? WHERE id = ?`,
		string(tags), sg, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return requireAffected(res, store.ErrNoteNotFound)
}

// SaveSuggestions stores refreshed suggestions without touching auto tags.
func (s *Store) SaveSuggestions(ctx context.Context, id int64, suggestions *domain.Suggestions, at time.Time) error {
	sg, err := encodeSuggestions(suggestions)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET ai_suggestions = ?, last_ai_analysis = ? WHERE id = ?`,
		sg, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("save suggestions: %w", err)
	}
	return requireAffected(res, store.ErrNoteNotFound)
}

// SaveTranslation stores translated fields and the outcome of the attempt.
func (s *Store) SaveTranslation(ctx context.Context, id int64, titleZH, contentZH string, status domain.TranslationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title_zh = ?, content_zh = ?, translation_status = ?, updated_at = ? WHERE id = ?`,
		nullString(titleZH), nullString(contentZH), string(status), formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return requireAffected(res, store.ErrNoteNotFound)
}

func encodeSuggestions(sg *domain.Suggestions) (sql.NullString, error) {
	if sg == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(sg)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode ai_suggestions: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// requireAffected maps a zero-row UPDATE or DELETE to notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
