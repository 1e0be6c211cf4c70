package bleveIndex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

const snippetRunes = 200

// Index is a full-text index of processed files backed by Bleve.
type Index struct {
	index  bleve.Index
	logger *logger_i.Logger
}

type indexedFile struct {
	FileId   string `json:"file_id"`
	NoteId   string `json:"note_id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Content  string `json:"content"`
}

// Open opens the index at path or creates it.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx, logger: logger_i.NewLogger("Bleve Index")}, nil
}

func NewInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx, logger: logger_i.NewLogger("Bleve Index")}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("file_id", keyword)
	docMapping.AddFieldMappingsAt("note_id", keyword)
	docMapping.AddFieldMappingsAt("file_type", keyword)
	docMapping.AddFieldMappingsAt("filename", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("content", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func (i *Index) Close() error {
	return i.index.Close()
}

func (i *Index) Index(ctx context.Context, file fileModel.StoredFile, md string) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("bleve_index", time.Since(start)) }()

	doc := indexedFile{
		FileId:   file.Id,
		NoteId:   file.NoteId,
		Filename: file.Filename,
		FileType: string(file.EffectiveType()),
		Content:  md,
	}
	if err := i.index.Index(file.Id, doc); err != nil {
		return fmt.Errorf("index file %s: %w", file.Id, err)
	}
	i.logger.WithTrace(ctx).Debug("file indexed", "fileId", file.Id)
	return nil
}

// Search matches the query against file content and names. A non-empty noteId
// restricts hits to that note.
func (i *Index) Search(ctx context.Context, noteId string, queryStr string, limit int) ([]commonModels.SearchHit, error) {
	var q query.Query = bleve.NewQueryStringQuery(queryStr)
	if noteId != "" {
		noteFilter := bleve.NewTermQuery(noteId)
		noteFilter.SetField("note_id")
		q = bleve.NewConjunctionQuery(q, noteFilter)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"note_id", "filename", "content"}

	results, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]commonModels.SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := commonModels.SearchHit{FileId: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["note_id"].(string); ok {
			h.NoteId = v
		}
		if v, ok := hit.Fields["filename"].(string); ok {
			h.Filename = v
		}
		if v, ok := hit.Fields["content"].(string); ok {
			h.Snippet = snippet(v)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func snippet(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= snippetRunes {
		return string(r)
	}
	return string(r[:snippetRunes]) + "…"
}

func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
