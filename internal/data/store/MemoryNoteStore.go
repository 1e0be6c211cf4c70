package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
)

type MemoryNoteStore struct {
	noteLock  *sync.RWMutex
	notebooks map[string]noteModel.Notebook
	notes     map[string]noteModel.Note
}

func InitMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{
		noteLock:  new(sync.RWMutex),
		notebooks: make(map[string]noteModel.Notebook),
		notes:     make(map[string]noteModel.Note),
	}
}

func (store *MemoryNoteStore) CreateNotebook(ctx context.Context, notebook noteModel.Notebook) error {
	store.noteLock.Lock()
	defer store.noteLock.Unlock()
	store.notebooks[notebook.Id] = notebook
	return nil
}

func (store *MemoryNoteStore) GetNotebook(ctx context.Context, id string) (noteModel.Notebook, error) {
	store.noteLock.RLock()
	defer store.noteLock.RUnlock()
	nb, ok := store.notebooks[id]
	if !ok {
		return noteModel.Notebook{}, noteModel.ErrNotebookNotFound
	}
	return nb, nil
}

func (store *MemoryNoteStore) CreateNote(ctx context.Context, note noteModel.Note) error {
	store.noteLock.Lock()
	defer store.noteLock.Unlock()
	if _, ok := store.notebooks[note.NotebookId]; !ok {
		return noteModel.ErrNotebookNotFound
	}
	store.notes[note.Id] = note
	return nil
}

func (store *MemoryNoteStore) GetNote(ctx context.Context, id string) (noteModel.Note, error) {
	store.noteLock.RLock()
	defer store.noteLock.RUnlock()
	note, ok := store.notes[id]
	if !ok {
		return noteModel.Note{}, noteModel.ErrNoteNotFound
	}
	return note, nil
}

func (store *MemoryNoteStore) NoteOwner(ctx context.Context, noteId string) (string, error) {
	store.noteLock.RLock()
	defer store.noteLock.RUnlock()
	note, ok := store.notes[noteId]
	if !ok {
		return "", noteModel.ErrNoteNotFound
	}
	nb, ok := store.notebooks[note.NotebookId]
	if !ok {
		return "", noteModel.ErrNotebookNotFound
	}
	return nb.UserId, nil
}

func (store *MemoryNoteStore) AppendContent(ctx context.Context, noteId string, md string, separator string) error {
	store.noteLock.Lock()
	defer store.noteLock.Unlock()
	note, ok := store.notes[noteId]
	if !ok {
		return noteModel.ErrNoteNotFound
	}
	note.Content = noteModel.AppendMarkdown(note.Content, md, separator)
	note.UpdatedAt = time.Now().UTC()
	store.notes[noteId] = note
	return nil
}
