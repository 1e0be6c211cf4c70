package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var initErr error
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQuadrantClient dials Qdrant once per process and closes it when ctx ends.
func GetQuadrantClient(ctx context.Context, host string, port int) (*ClientHolder, error) {
	once.Do(func() {
		quadrantInstance, initErr = newClient(ctx, host, port)
		if initErr == nil {
			go closeQdrant(ctx, quadrantInstance)
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return &ClientHolder{QObj: quadrantInstance}, nil
}

func newClient(ctx context.Context, host string, port int) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}

	if err := createCollection(ctx, client, config.EmbeddingCollectionName); err != nil {
		logger.Error("could not create collection: ", "collectionName", config.EmbeddingCollectionName, "error:", err)
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, collectionName string, noteId string, vector []float32, limit int) ([]commonModels.SearchHit, error) {
	log := logger.WithTrace(ctx)
	req := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if noteId != "" {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("note_id", noteId)},
		}
	}

	result, err := db.QObj.Query(ctx, req)
	if err != nil {
		log.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]commonModels.SearchHit, 0, len(result))
	for _, hit := range result {
		hits = append(hits, commonModels.SearchHit{
			FileId:   hit.Payload["file_id"].GetStringValue(),
			NoteId:   hit.Payload["note_id"].GetStringValue(),
			Filename: hit.Payload["filename"].GetStringValue(),
			Snippet:  hit.Payload["content"].GetStringValue(),
			Score:    float64(hit.Score),
		})
	}
	log.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":         chunk.Chunk,
				"file_id":         chunk.Doc.Id,
				"note_id":         chunk.Doc.NoteId,
				"filename":        chunk.Doc.Name,
				"file_type":       string(chunk.Doc.ContentType),
				"chunk_order":     chunk.ChunkOrder,
				"chunk_id":        chunk.ChunkId,
				"embedding_model": chunk.EmbeddingModel,
				"ingested_at":     chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
