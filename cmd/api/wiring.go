package main

import (
	"context"
	"net/http"

	"github.com/akolanti/NotesAPI/internal/aitools"
	"github.com/akolanti/NotesAPI/internal/blob"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/data/postgresStore"
	"github.com/akolanti/NotesAPI/internal/data/redisStore"
	"github.com/akolanti/NotesAPI/internal/data/store"
	"github.com/akolanti/NotesAPI/internal/dispatch"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
	"github.com/akolanti/NotesAPI/internal/index"
	"github.com/akolanti/NotesAPI/internal/index/bleveIndex"
	"github.com/akolanti/NotesAPI/internal/index/embedding/googleEmbedding"
	"github.com/akolanti/NotesAPI/internal/index/vectorDB/qdrantDB"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/internal/llm/gemini"
	"github.com/akolanti/NotesAPI/internal/llm/openaiLLM"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var wiringLogger = logger_i.NewLogger("wiring")

// buildStores uses Postgres when DATABASE_URL is set and falls back to memory when it is unreachable.
func buildStores(ctx context.Context, cfg *config.Config) (fileModel.FileStore, noteModel.NoteStore) {
	if cfg.DatabaseURL != "" {
		db, err := postgresStore.Open(ctx, cfg.DatabaseURL)
		if err == nil {
			go func() {
				<-ctx.Done()
				if err := db.Close(); err != nil {
					wiringLogger.Error("Error closing database", "error", err)
				}
			}()
			return postgresStore.NewFileStore(db), postgresStore.NewNoteStore(db)
		}
		wiringLogger.Error("Postgres is offline, using in-memory stores", "error", err)
	}
	return store.InitMemoryFileStore(), store.InitMemoryNoteStore()
}

func buildBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "s3" {
		return blob.NewS3Store(ctx, blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	}
	return blob.NewLocalStore(cfg.BlobDir)
}

// buildProvider returns one provider for both the text and the vision model.
func buildProvider(ctx context.Context, cfg *config.Config, httpClient *http.Client) llm.Provider {
	switch cfg.LLMProvider {
	case config.LLMProviderGemini:
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, httpClient)
	case config.LLMProviderOpenAI:
		return openaiLLM.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIURL, httpClient)
	default:
		wiringLogger.Error("Unknown LLM provider", "provider", cfg.LLMProvider)
		return llm.Unavailable("unknown provider " + cfg.LLMProvider)
	}
}

// buildIndex falls back to the log indexer when the chosen backend cannot start.
func buildIndex(ctx context.Context, cfg *config.Config, httpClient *http.Client) (index.Indexer, index.Searcher) {
	fallback := index.NewLogIndexer()

	switch cfg.IndexBackend {
	case config.IndexBackendBleve:
		idx, err := bleveIndex.Open(cfg.BleveIndexPath)
		if err != nil {
			wiringLogger.Error("Could not open the search index", "path", cfg.BleveIndexPath, "error", err)
			return fallback, fallback
		}
		go func() {
			<-ctx.Done()
			if err := idx.Close(); err != nil {
				wiringLogger.Error("Error closing search index", "error", err)
			}
		}()
		return idx, idx

	case config.IndexBackendQdrant:
		vectorDB, err := qdrantDB.GetQuadrantClient(ctx, cfg.QdrantHost, cfg.QdrantPort)
		if err != nil {
			wiringLogger.Error("Qdrant is offline", "error", err)
			return fallback, fallback
		}
		embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, cfg.GeminiAPIKey, httpClient)
		if embedder == nil {
			wiringLogger.Error("Embedding client is unavailable")
			return fallback, fallback
		}
		vectors := index.NewVectorIndex(embedder, vectorDB)
		return vectors, vectors
	}
	return fallback, fallback
}

// buildDispatcher prefers the durable Redis queue and keeps the pool as its fallback.
func buildDispatcher(ctx context.Context, cfg *config.Config, pool *dispatch.WorkerPool) dispatch.Dispatcher {
	if !cfg.UseQueue {
		return pool
	}
	queue, err := redisStore.GetRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, config.RedisQueueDB)
	if err != nil {
		wiringLogger.Error("Redis is offline, processing files inline", "error", err)
		return pool
	}
	consumer := dispatch.NewQueueConsumer(queue, config.RedisQueueKey, pool)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			wiringLogger.Warn("Queue consumer exited", "error", err)
		}
	}()
	queueDispatcher := dispatch.NewQueueDispatcher(queue, config.RedisQueueKey, pool)
	pool.WithHandoff(queueDispatcher)
	return queueDispatcher
}

func attachSummaryCache(ctx context.Context, cfg *config.Config, tools *aitools.Service) {
	cache, err := redisStore.GetRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, config.RedisCacheDB)
	if err != nil {
		wiringLogger.Warn("Redis is offline, summaries are not cached", "error", err)
		return
	}
	tools.WithCache(cache, config.SummaryCacheTTL)
}
