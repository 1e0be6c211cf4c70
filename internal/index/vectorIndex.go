package index

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/index/embedding"
	"github.com/akolanti/NotesAPI/internal/index/vectorDB"
	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/google/uuid"
)

// VectorIndex embeds overlapping chunks of each file and stores them in a vector database.
type VectorIndex struct {
	embedder   embedding.Embedder
	db         vectorDB.DataProcessor
	collection string
	batchSize  int
	logger     *logger_i.Logger
}

func NewVectorIndex(embedder embedding.Embedder, db vectorDB.DataProcessor) *VectorIndex {
	return &VectorIndex{
		embedder:   embedder,
		db:         db,
		collection: config.EmbeddingCollectionName,
		batchSize:  config.EmbeddingBatchSize,
		logger:     logger_i.NewLogger("Vector Index"),
	}
}

func (v *VectorIndex) Index(ctx context.Context, file fileModel.StoredFile, md string) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_index", time.Since(start)) }()

	chunks := PrepareChunks(md, commonModels.DocumentFromFile(file), v.embedder.Model())
	v.logger.WithTrace(ctx).Debug("indexing file", "fileId", file.Id, "chunks", len(chunks))
	if len(chunks) == 0 {
		return nil
	}
	return BatchIngest(ctx, v.collection, v.batchSize, chunks, v.db, v.embedder)
}

func (v *VectorIndex) Search(ctx context.Context, noteId string, query string, limit int) ([]commonModels.SearchHit, error) {
	vector, err := v.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return v.db.Search(ctx, v.collection, noteId, vector, limit)
}

// PrepareChunks splits md with overlap. Chunk ids are derived from the file id and
// position, so indexing the same file again overwrites its points.
func PrepareChunks(md string, doc commonModels.Document, embeddingModel string) []commonModels.DocChunk {
	parts := ingest.SplitWithOverlap(md, config.VectorChunkSize, config.VectorChunkOverlap)

	chunks := make([]commonModels.DocChunk, 0, len(parts))
	for _, text := range parts {
		if text == "" {
			continue
		}
		order := len(chunks)
		chunks = append(chunks, commonModels.DocChunk{
			Doc:            doc,
			ChunkId:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(doc.Id+"#"+strconv.Itoa(order))).String(),
			Chunk:          text,
			ChunkOrder:     order,
			EmbeddingModel: embeddingModel,
		})
	}
	return chunks
}

func BatchIngest(ctx context.Context, collection string, batchSize int, chunks []commonModels.DocChunk, db vectorDB.DataProcessor, embedder embedding.Embedder) error {
	log := logger_i.NewLogger("Batch Ingestion").WithTrace(ctx)

	for i := 0; i < len(chunks); i += batchSize {
		end := min(i+batchSize, len(chunks))
		currentBatch := chunks[i:end]

		texts := make([]string, 0, len(currentBatch))
		for _, c := range currentBatch {
			texts = append(texts, c.Chunk)
		}

		log.Debug("Starting embedding call", "batch", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := db.UpsertBatch(ctx, collection, currentBatch, vectors); err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}
	return nil
}
