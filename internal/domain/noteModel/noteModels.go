package noteModel

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrForbidden        = errors.New("note belongs to another user")
)

type Notebook struct {
	Id          string    `json:"id"`
	UserId      string    `json:"user_id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Note struct {
	Id         string    `json:"id"`
	NotebookId string    `json:"notebook_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NoteStore interface {
	CreateNotebook(ctx context.Context, notebook Notebook) error
	GetNotebook(ctx context.Context, id string) (Notebook, error)
	CreateNote(ctx context.Context, note Note) error
	GetNote(ctx context.Context, id string) (Note, error)
	// NoteOwner resolves the user that owns the notebook holding the note.
	NoteOwner(ctx context.Context, noteId string) (string, error)
	// AppendContent appends md after separator, or replaces the content when it is empty.
	AppendContent(ctx context.Context, noteId string, md string, separator string) error
}

// AppendMarkdown is the pure form of NoteStore.AppendContent.
func AppendMarkdown(existing, md, separator string) string {
	if existing == "" {
		return md
	}
	return existing + separator + md
}
