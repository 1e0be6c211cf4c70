package postgresStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
)

type NoteStore struct {
	db DBTX
}

func NewNoteStore(db DBTX) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) CreateNotebook(ctx context.Context, nb noteModel.Notebook) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notebooks (id, user_id, name, subject, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		nb.Id, nb.UserId, nb.Name, nb.Subject, nb.Description, nb.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notebook: %w", err)
	}
	return nil
}

func (s *NoteStore) GetNotebook(ctx context.Context, id string) (noteModel.Notebook, error) {
	var nb noteModel.Notebook
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, subject, description, created_at FROM notebooks WHERE id = $1`, id).
		Scan(&nb.Id, &nb.UserId, &nb.Name, &nb.Subject, &nb.Description, &nb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return noteModel.Notebook{}, noteModel.ErrNotebookNotFound
	}
	return nb, err
}

func (s *NoteStore) CreateNote(ctx context.Context, n noteModel.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, notebook_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.Id, n.NotebookId, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	if isForeignKeyViolation(err) {
		return noteModel.ErrNotebookNotFound
	}
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *NoteStore) GetNote(ctx context.Context, id string) (noteModel.Note, error) {
	var n noteModel.Note
	err := s.db.QueryRowContext(ctx, `
		SELECT id, notebook_id, title, content, created_at, updated_at FROM notes WHERE id = $1`, id).
		Scan(&n.Id, &n.NotebookId, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return noteModel.Note{}, noteModel.ErrNoteNotFound
	}
	return n, err
}

func (s *NoteStore) NoteOwner(ctx context.Context, noteId string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT nb.user_id FROM notes n JOIN notebooks nb ON nb.id = n.notebook_id WHERE n.id = $1`, noteId).
		Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", noteModel.ErrNoteNotFound
	}
	return owner, err
}

// AppendContent is one UPDATE, so concurrent appends serialise on the row lock.
func (s *NoteStore) AppendContent(ctx context.Context, noteId string, md string, separator string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET content = CASE WHEN content = '' THEN $2 ELSE content || $3 || $2 END,
		    updated_at = now()
		WHERE id = $1`, noteId, md, separator)
	if err != nil {
		return fmt.Errorf("append note content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return noteModel.ErrNoteNotFound
	}
	return nil
}
