package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	USER_ID_KEY    = "userId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//user assumed when auth is disabled or for the MCP server
	LocalUserID = "local-user"

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//uploads
	MaxUploadBytes     int64 = 10 << 20
	MaxFilesPerUpload        = 5
	MultipartMemory    int64 = 32 << 20
	BlobDir                  = "temporary_data"
	DefaultSearchLimit       = 10
	MaxSearchLimit           = 50

	//worker pool
	RequestsPerNewWorkerCount int64 = 2
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	BufferLimit                     = 100
	//matches the soft time limit of a processing task
	JobTimeout = 300 * time.Second

	//redis queue
	redisHost          = "127.0.0.1"
	redisPort          = "6379"
	RedisAddr          = redisHost + ":" + redisPort
	RedisQueueDB       = 0
	RedisCacheDB       = 1
	RedisQueueKey      = "notes:file-processing"
	RedisBlockTimeout  = 5 * time.Second
	RedisPingTimeout   = 3 * time.Second
	RedisClientTimeout = 30 * time.Second
	SummaryCacheTTL    = 24 * time.Hour

	//llm
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
	OpenAIModelText   = "gpt-4o-mini"
	OpenAIModelVision = "gpt-4o"
	GeminiModelName   = "gemini-2.5-flash"

	LLMMaxRetries       = 2
	LLMRetryBase        = 1 * time.Second
	LLMRetryStep        = 2 * time.Second
	LLMTemperature      = 0.0
	LLMMaxTokens        = 1500
	LLMConnectionTimout = 120 * time.Second

	//cleanup and chunking
	ChunkSizeTokens = 4000
	MaxCleanupChars = 200000

	//ocr
	MaxSendSizeMB = 5
	UseLocalOCR   = false
	OCRLanguages  = "spa+eng"
	RasterDPI     = 200

	//ai tools
	SummaryTemperature = 0.5
	SummaryMaxTokens   = 1500
	QuizTemperature    = 0.3
	QuizMaxTokens      = 2000
	QuizQuestionCount  = 5
	ImproveTemperature = 0.2
	ImproveMaxTokens   = 1000

	//indexing
	IndexBackendLog    = "log"
	IndexBackendBleve  = "bleve"
	IndexBackendQdrant = "qdrant"
	BleveIndexPath     = "notes.bleve"

	//vectorDB
	EmbeddingOutputDimensionality int32 = 1536
	EmbeddingCollectionName             = "notes-files"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	QdrantHost                          = "localhost"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1
	VectorChunkSize                     = 1000
	VectorChunkOverlap                  = 150
	EmbeddingBatchSize                  = 100

	//http pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
)
