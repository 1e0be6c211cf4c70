package files

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/akolanti/NotesAPI/internal/blob"
	"github.com/akolanti/NotesAPI/internal/dispatch"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/google/uuid"
)

var ErrEmptyFile = errors.New("file is empty")

// Service is the intake side of file processing: it validates and stores uploads,
// records them as queued and hands them to the dispatcher.
type Service struct {
	files      fileModel.FileStore
	notes      noteModel.NoteStore
	blobs      blob.Store
	dispatcher dispatch.Dispatcher
	maxBytes   int64
	now        func() time.Time
	logger     *logger_i.Logger
}

func NewService(files fileModel.FileStore, notes noteModel.NoteStore, blobs blob.Store, dispatcher dispatch.Dispatcher, maxBytes int64) *Service {
	return &Service{
		files:      files,
		notes:      notes,
		blobs:      blobs,
		dispatcher: dispatcher,
		maxBytes:   maxBytes,
		now:        time.Now,
		logger:     logger_i.NewLogger("FileService"),
	}
}

// StorageKey is where the payload of a file lives in the blob store.
func StorageKey(id string, fileType fileModel.FileType) string {
	return fmt.Sprintf("files/%s.%s", id, fileType)
}

// Upload stores r as a new file of noteID. The returned file is queued; a failed
// dispatch is logged and leaves it queued.
func (s *Service) Upload(ctx context.Context, userID, noteID, filename string, r io.Reader) (fileModel.StoredFile, error) {
	log := s.logger.WithTrace(ctx).With("noteId", noteID, "filename", filename)

	if err := s.checkOwner(ctx, userID, noteID); err != nil {
		return fileModel.StoredFile{}, err
	}

	fileType := fileModel.ParseFileType(filename)
	if !fileType.IsAllowed() {
		log.Warn("rejected upload", "type", fileType)
		return fileModel.StoredFile{}, fmt.Errorf("%w: %q", fileModel.ErrFileTypeNotAllowed, fileType)
	}

	payload, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return fileModel.StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(payload)) > s.maxBytes {
		return fileModel.StoredFile{}, fmt.Errorf("%w: limit is %d bytes", fileModel.ErrFileTooLarge, s.maxBytes)
	}
	if len(payload) == 0 {
		return fileModel.StoredFile{}, ErrEmptyFile
	}

	sum := sha256.Sum256(payload)
	file := fileModel.StoredFile{
		Id:         uuid.New().String(),
		NoteId:     noteID,
		Filename:   filename,
		FileType:   fileType,
		Size:       int64(len(payload)),
		UploadedAt: s.now().UTC(),
		Checksum:   hex.EncodeToString(sum[:]),
		Status:     fileModel.FileStatusQueued,
	}
	file.StorageKey = StorageKey(file.Id, fileType)
	log = log.With("fileId", file.Id)

	if err := s.blobs.Put(ctx, file.StorageKey, bytes.NewReader(payload)); err != nil {
		return fileModel.StoredFile{}, fmt.Errorf("store payload: %w", err)
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
			log.Error("orphaned payload", "key", file.StorageKey, "error", delErr)
		}
		return fileModel.StoredFile{}, fmt.Errorf("create file: %w", err)
	}
	log.Info("file uploaded", "size", file.Size, "type", fileType)

	if err := s.dispatcher.Submit(ctx, file.Id); err != nil {
		log.Error("could not dispatch file, it stays queued", "error", err)
	}
	return file, nil
}

// Get returns a file if its note belongs to userID.
func (s *Service) Get(ctx context.Context, userID, fileID string) (fileModel.StoredFile, error) {
	file, err := s.files.Get(ctx, fileID)
	if err != nil {
		return fileModel.StoredFile{}, err
	}
	if err := s.checkOwner(ctx, userID, file.NoteId); err != nil {
		return fileModel.StoredFile{}, err
	}
	return file, nil
}

func (s *Service) ListByNote(ctx context.Context, userID, noteID string) ([]fileModel.StoredFile, error) {
	if err := s.checkOwner(ctx, userID, noteID); err != nil {
		return nil, err
	}
	return s.files.ListByNote(ctx, noteID)
}

// Delete removes the record and then the payload. A payload that cannot be removed is only logged.
func (s *Service) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, file.Id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, file.StorageKey); err != nil && !errors.Is(err, blob.ErrBlobNotFound) {
		s.logger.WithTrace(ctx).Error("could not delete payload", "fileId", file.Id, "key", file.StorageKey, "error", err)
	}
	return nil
}

func (s *Service) CreateNotebook(ctx context.Context, userID, name, subject, description string) (noteModel.Notebook, error) {
	if strings.TrimSpace(name) == "" {
		return noteModel.Notebook{}, errors.New("notebook name is required")
	}
	nb := noteModel.Notebook{
		Id:          uuid.New().String(),
		UserId:      userID,
		Name:        name,
		Subject:     subject,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.notes.CreateNotebook(ctx, nb); err != nil {
		return noteModel.Notebook{}, err
	}
	return nb, nil
}

func (s *Service) CreateNote(ctx context.Context, userID, notebookID, title, content string) (noteModel.Note, error) {
	nb, err := s.notes.GetNotebook(ctx, notebookID)
	if err != nil {
		return noteModel.Note{}, err
	}
	if nb.UserId != userID {
		return noteModel.Note{}, noteModel.ErrForbidden
	}
	now := s.now().UTC()
	note := noteModel.Note{
		Id:         uuid.New().String(),
		NotebookId: notebookID,
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		return noteModel.Note{}, err
	}
	return note, nil
}

func (s *Service) GetNote(ctx context.Context, userID, noteID string) (noteModel.Note, error) {
	if err := s.checkOwner(ctx, userID, noteID); err != nil {
		return noteModel.Note{}, err
	}
	return s.notes.GetNote(ctx, noteID)
}

func (s *Service) checkOwner(ctx context.Context, userID, noteID string) error {
	owner, err := s.notes.NoteOwner(ctx, noteID)
	if err != nil {
		return err
	}
	if owner != userID {
		return noteModel.ErrForbidden
	}
	return nil
}
