package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notetakerapp/notetaker-server/internal/domain"
	"github.com/notetakerapp/notetaker-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, color, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)

	if err := scanner.Scan(&t.ID, &t.Name, &t.Color, &createdAt); err != nil {
		return nil, err
	}

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag and fills in its ID.
// Returns store.ErrTagExists on duplicate name.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if t.Color == "" {
		t.Color = domain.DefaultTagColor
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, color, created_at)
		VALUES (?, ?, ?)`,
		t.Name,
		t.Color,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTagExists
		}
		return fmt.Errorf("insert tag: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("tag id: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by its ID.
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTagToNote links a tag to a note.
// Returns store.ErrNoteNotFound, store.ErrTagNotFound or store.ErrTagAlreadyLinked.
func (s *Store) AddTagToNote(ctx context.Context, noteID, tagID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := existsIn(ctx, tx, "notes", noteID, store.ErrNoteNotFound); err != nil {
		return err
	}
	if err := existsIn(ctx, tx, "tags", tagID, store.ErrTagNotFound); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO note_tags (note_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		noteID,
		tagID,
		formatTime(s.now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTagAlreadyLinked
		}
		return fmt.Errorf("insert note_tag: %w", err)
	}

	return tx.Commit()
}

// RemoveTagFromNote unlinks a tag from a note.
// Returns store.ErrTagNotLinked if the pair does not exist.
func (s *Store) RemoveTagFromNote(ctx context.Context, noteID, tagID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?`, noteID, tagID)
	if err != nil {
		return fmt.Errorf("delete note_tag: %w", err)
	}
	return requireAffected(res, store.ErrTagNotLinked)
}

// loadNoteTags attaches manual tags to notes with a single query.
func (s *Store) loadNoteTags(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}

	index := make(map[int64]int, len(notes))
	args := make([]any, len(notes))
	for i := range notes {
		index[notes[i].ID] = i
		args[i] = notes[i].ID
		if notes[i].Tags == nil {
			notes[i].Tags = []domain.Tag{}
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT nt.note_id, t.id, t.name, t.color, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(notes))+`)
		ORDER BY t.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("query note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID    int64
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&noteID, &t.ID, &t.Name, &t.Color, &createdAt); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if i, ok := index[noteID]; ok {
			notes[i].Tags = append(notes[i].Tags, t)
		}
	}
	return rows.Err()
}

func existsIn(ctx context.Context, tx *sql.Tx, table string, id int64, notFound error) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}
