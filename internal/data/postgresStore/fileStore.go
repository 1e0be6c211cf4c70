package postgresStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
)

type FileStore struct {
	db DBTX
}

func NewFileStore(db DBTX) *FileStore {
	return &FileStore{db: db}
}

const fileColumns = `id, note_id, storage_key, filename, file_type, file_size, uploaded_at, checksum, status, processing_error, md_content`

func (s *FileStore) Create(ctx context.Context, f fileModel.StoredFile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, note_id, storage_key, filename, file_type, file_size, uploaded_at, checksum, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.Id, f.NoteId, f.StorageKey, f.Filename, string(f.FileType), f.Size, f.UploadedAt, f.Checksum, string(f.Status))
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (fileModel.StoredFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fileModel.StoredFile{}, fileModel.ErrFileNotFound
	}
	return f, err
}

func (s *FileStore) ListByNote(ctx context.Context, noteId string) ([]fileModel.StoredFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM files WHERE note_id = $1 ORDER BY uploaded_at`, noteId)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	files := make([]fileModel.StoredFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *FileStore) MarkProcessing(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE files SET status = 'processing', processing_error = NULL
		WHERE id = $1 AND status = 'queued'`, id)
	if err != nil {
		return false, fmt.Errorf("claim file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return true, nil
	}
	found, err := exists(ctx, s.db, "files", id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fileModel.ErrFileNotFound
	}
	return false, nil
}

func (s *FileStore) MarkDone(ctx context.Context, id string, md string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE files SET status = 'done', md_content = $2, processing_error = NULL
		WHERE id = $1 AND status = 'processing'`, id, md)
	if err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return s.checkTransition(ctx, res, id)
}

func (s *FileStore) MarkError(ctx context.Context, id string, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE files SET status = 'error', processing_error = $2
		WHERE id = $1 AND status = 'processing'`, id, message)
	if err != nil {
		return fmt.Errorf("mark error: %w", err)
	}
	return s.checkTransition(ctx, res, id)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fileModel.ErrFileNotFound
	}
	return nil
}

func (s *FileStore) checkTransition(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}
	found, err := exists(ctx, s.db, "files", id)
	if err != nil {
		return err
	}
	if !found {
		return fileModel.ErrFileNotFound
	}
	return fileModel.ErrInvalidTransition
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (fileModel.StoredFile, error) {
	var f fileModel.StoredFile
	var fileType, status string
	var procErr, md sql.NullString
	if err := row.Scan(&f.Id, &f.NoteId, &f.StorageKey, &f.Filename, &fileType, &f.Size,
		&f.UploadedAt, &f.Checksum, &status, &procErr, &md); err != nil {
		return fileModel.StoredFile{}, err
	}
	f.FileType = fileModel.FileType(fileType)
	f.Status = fileModel.FileStatus(status)
	f.ProcessingError = procErr.String
	if md.Valid {
		content := md.String
		f.MdContent = &content
	}
	return f, nil
}
