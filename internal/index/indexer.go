package index

import (
	"context"
	"errors"

	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var ErrSearchUnavailable = errors.New("search is not enabled")

// Indexer receives every file that finished processing with its Markdown.
// Failures are reported but never change the file status.
type Indexer interface {
	Index(ctx context.Context, file fileModel.StoredFile, md string) error
}

type Searcher interface {
	Search(ctx context.Context, noteId string, query string, limit int) ([]commonModels.SearchHit, error)
}

// LogIndexer only records that a file would have been indexed.
type LogIndexer struct {
	logger *logger_i.Logger
}

func NewLogIndexer() *LogIndexer {
	return &LogIndexer{logger: logger_i.NewLogger("Indexer")}
}

func (l *LogIndexer) Index(ctx context.Context, file fileModel.StoredFile, md string) error {
	l.logger.WithTrace(ctx).Info("file ready for indexing", "fileId", file.Id, "noteId", file.NoteId, "chars", len(md))
	return nil
}

func (l *LogIndexer) Search(ctx context.Context, noteId string, query string, limit int) ([]commonModels.SearchHit, error) {
	return nil, ErrSearchUnavailable
}
