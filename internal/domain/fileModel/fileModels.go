package fileModel

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"
)

type FileStatus string
type FileType string

const (
	FileStatusQueued     FileStatus = "queued"
	FileStatusProcessing FileStatus = "processing"
	FileStatusDone       FileStatus = "done"
	FileStatusError      FileStatus = "error"

	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeXLSX FileType = "xlsx"
	FileTypePPTX FileType = "pptx"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
	FileTypeTXT  FileType = "txt"
	FileTypeMD   FileType = "md"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrNotQueued          = errors.New("file is not queued")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file too large")
)

var allowedTypes = map[FileType]bool{
	FileTypePDF:  true,
	FileTypeDOCX: true,
	FileTypeXLSX: true,
	FileTypePPTX: true,
	FileTypePNG:  true,
	FileTypeJPG:  true,
	FileTypeJPEG: true,
	FileTypeTXT:  true,
	FileTypeMD:   true,
}

// StoredFile is an uploaded payload and the state of its conversion to Markdown.
// MdContent stays nil until the file reaches FileStatusDone.
type StoredFile struct {
	Id              string     `json:"id"`
	NoteId          string     `json:"note_id"`
	StorageKey      string     `json:"storage_key"`
	Filename        string     `json:"filename"`
	FileType        FileType   `json:"file_type"`
	Size            int64      `json:"file_size"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	Checksum        string     `json:"checksum"`
	Status          FileStatus `json:"status"`
	ProcessingError string     `json:"processing_error,omitempty"`
	MdContent       *string    `json:"md_content,omitempty"`
}

// ParseFileType returns the lower-cased extension of name without the dot.
func ParseFileType(name string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	return FileType(strings.TrimPrefix(ext, "."))
}

func (t FileType) IsAllowed() bool {
	return allowedTypes[t]
}

func (t FileType) IsImage() bool {
	return t == FileTypePNG || t == FileTypeJPG || t == FileTypeJPEG
}

func AllowedTypes() []FileType {
	return []FileType{FileTypePDF, FileTypeDOCX, FileTypeXLSX, FileTypePPTX, FileTypePNG, FileTypeJPG, FileTypeJPEG, FileTypeTXT, FileTypeMD}
}

// EffectiveType prefers the declared type and falls back to the filename extension.
func (f StoredFile) EffectiveType() FileType {
	if f.FileType != "" {
		return FileType(strings.ToLower(string(f.FileType)))
	}
	return ParseFileType(f.Filename)
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
// done and error are terminal.
func CanTransition(from, to FileStatus) bool {
	switch from {
	case FileStatusQueued:
		return to == FileStatusProcessing
	case FileStatusProcessing:
		return to == FileStatusDone || to == FileStatusError
	default:
		return false
	}
}

func (s FileStatus) IsTerminal() bool {
	return s == FileStatusDone || s == FileStatusError
}

type FileStore interface {
	Create(ctx context.Context, file StoredFile) error
	Get(ctx context.Context, id string) (StoredFile, error)
	ListByNote(ctx context.Context, noteId string) ([]StoredFile, error)

	// MarkProcessing moves a queued file to processing and clears any previous error.
	// It returns false when the file was not queued.
	MarkProcessing(ctx context.Context, id string) (bool, error)
	// MarkDone persists md and the done status in one step.
	MarkDone(ctx context.Context, id string, md string) error
	MarkError(ctx context.Context, id string, message string) error
	Delete(ctx context.Context, id string) error
}
