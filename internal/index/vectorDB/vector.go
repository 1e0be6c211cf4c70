package vectorDB

import (
	"context"

	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
)

type DataProcessor interface {
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error
	Search(ctx context.Context, collectionName string, noteId string, vector []float32, limit int) ([]commonModels.SearchHit, error)
}
