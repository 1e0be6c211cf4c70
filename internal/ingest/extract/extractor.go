package extract

import (
	"context"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/ingest/ocr"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

// Extractor converts a payload on local disk into Markdown.
// Missing capabilities and malformed input produce a degraded result; an error
// means the file should be marked as failed.
type Extractor interface {
	Extract(ctx context.Context, path string) (ingest.Result, error)
}

type ExtractorFunc func(ctx context.Context, path string) (ingest.Result, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) (ingest.Result, error) {
	return f(ctx, path)
}

// Cleaner is the text cleanup backend used by the document extractors.
type Cleaner interface {
	CleanToMarkdown(ctx context.Context, text string, instructions string) (string, error)
	Convert(ctx context.Context, text string) (string, error)
}

// Recognizer is the OCR backend used for images and scanned pages.
type Recognizer interface {
	Recognize(ctx context.Context, src ocr.Source) ingest.Result
	RecognizeLocal(ctx context.Context, image []byte) (string, error)
	HasLocalEngine() bool
}

type Deps struct {
	Cleaner    Cleaner
	OCR        Recognizer
	Rasterizer Rasterizer
	// CleanPlainText sends txt and md files through the cleanup backend too.
	CleanPlainText bool
}

// Set selects an extractor by declared file type.
type Set struct {
	byType   map[fileModel.FileType]Extractor
	fallback Extractor
	logger   *logger_i.Logger
}

func NewSet(deps Deps) *Set {
	log := logger_i.NewLogger("extractors")
	text := &textExtractor{cleaner: deps.Cleaner, clean: deps.CleanPlainText, logger: log}
	images := &imageExtractor{ocr: deps.OCR}

	return &Set{
		byType: map[fileModel.FileType]Extractor{
			fileModel.FileTypeTXT:  text,
			fileModel.FileTypeMD:   text,
			fileModel.FileTypeDOCX: &docxExtractor{cleaner: deps.Cleaner, logger: log},
			fileModel.FileTypePDF:  &pdfExtractor{cleaner: deps.Cleaner, ocr: deps.OCR, rasterizer: deps.Rasterizer, logger: log},
			fileModel.FileTypeXLSX: &xlsxExtractor{cleaner: deps.Cleaner, logger: log},
			fileModel.FileTypePPTX: &pptxExtractor{cleaner: deps.Cleaner, logger: log},
			fileModel.FileTypePNG:  images,
			fileModel.FileTypeJPG:  images,
			fileModel.FileTypeJPEG: images,
		},
		fallback: &fallbackExtractor{logger: log},
		logger:   log,
	}
}

// For never returns nil. Unknown types get a best-effort plain text reader.
func (s *Set) For(fileType fileModel.FileType) Extractor {
	if e, ok := s.byType[fileType]; ok {
		return e
	}
	s.logger.Warn("no extractor for type, reading as plain text", "type", fileType)
	return s.fallback
}

// Register replaces the extractor for a type.
func (s *Set) Register(fileType fileModel.FileType, e Extractor) {
	s.byType[fileType] = e
}
