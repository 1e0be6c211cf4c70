package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem FileStore")

// MemoryFileStore keeps files in a map. Status changes are serialised by one lock.
type MemoryFileStore struct {
	fileMutex *sync.RWMutex
	fileMap   map[string]fileModel.StoredFile
}

func InitMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		fileMutex: new(sync.RWMutex),
		fileMap:   make(map[string]fileModel.StoredFile),
	}
}

func (store *MemoryFileStore) Create(ctx context.Context, file fileModel.StoredFile) error {
	store.fileMutex.Lock()
	defer store.fileMutex.Unlock()
	store.fileMap[file.Id] = file
	inMemLogger.Debug("saved file to store", "fileId", file.Id)
	return nil
}

func (store *MemoryFileStore) Get(ctx context.Context, id string) (fileModel.StoredFile, error) {
	store.fileMutex.RLock()
	defer store.fileMutex.RUnlock()
	file, found := store.fileMap[id]
	if !found {
		return fileModel.StoredFile{}, fileModel.ErrFileNotFound
	}
	return copyFile(file), nil
}

func (store *MemoryFileStore) ListByNote(ctx context.Context, noteId string) ([]fileModel.StoredFile, error) {
	store.fileMutex.RLock()
	defer store.fileMutex.RUnlock()
	files := make([]fileModel.StoredFile, 0)
	for _, f := range store.fileMap {
		if f.NoteId == noteId {
			files = append(files, copyFile(f))
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].UploadedAt.Before(files[j].UploadedAt) })
	return files, nil
}

func (store *MemoryFileStore) MarkProcessing(ctx context.Context, id string) (bool, error) {
	store.fileMutex.Lock()
	defer store.fileMutex.Unlock()
	file, found := store.fileMap[id]
	if !found {
		return false, fileModel.ErrFileNotFound
	}
	if file.Status != fileModel.FileStatusQueued {
		return false, nil
	}
	file.Status = fileModel.FileStatusProcessing
	file.ProcessingError = ""
	store.fileMap[id] = file
	return true, nil
}

func (store *MemoryFileStore) MarkDone(ctx context.Context, id string, md string) error {
	return store.finish(id, fileModel.FileStatusDone, func(f *fileModel.StoredFile) {
		f.MdContent = &md
		f.ProcessingError = ""
	})
}

func (store *MemoryFileStore) MarkError(ctx context.Context, id string, message string) error {
	return store.finish(id, fileModel.FileStatusError, func(f *fileModel.StoredFile) {
		f.ProcessingError = message
	})
}

func (store *MemoryFileStore) Delete(ctx context.Context, id string) error {
	store.fileMutex.Lock()
	defer store.fileMutex.Unlock()
	if _, found := store.fileMap[id]; !found {
		return fileModel.ErrFileNotFound
	}
	delete(store.fileMap, id)
	return nil
}

func (store *MemoryFileStore) finish(id string, to fileModel.FileStatus, apply func(f *fileModel.StoredFile)) error {
	store.fileMutex.Lock()
	defer store.fileMutex.Unlock()
	file, found := store.fileMap[id]
	if !found {
		return fileModel.ErrFileNotFound
	}
	if !fileModel.CanTransition(file.Status, to) {
		return fileModel.ErrInvalidTransition
	}
	file.Status = to
	apply(&file)
	store.fileMap[id] = file
	return nil
}

// callers must not share the md pointer with the map entry
func copyFile(f fileModel.StoredFile) fileModel.StoredFile {
	if f.MdContent != nil {
		md := *f.MdContent
		f.MdContent = &md
	}
	return f
}
