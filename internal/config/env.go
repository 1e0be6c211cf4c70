package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration, resolved from the environment with the
// const block above as defaults.
type Config struct {
	ListenAddr string
	IsProd     bool
	LogLevel   slog.Level

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	UseQueue      bool

	BlobBackend  string
	BlobDir      string
	S3Bucket     string
	S3Region     string
	S3AccessKey  string
	S3SecretKey  string
	S3Endpoint   string
	MaxUploadMiB int64

	LLMProvider  string
	OpenAIAPIKey string
	OpenAIURL    string
	GeminiAPIKey string
	ModelText    string
	ModelVision  string
	MaxRetries   int
	RetryBase    time.Duration
	RetryStep    time.Duration
	Temperature  float64
	MaxTokens    int

	ChunkSizeTokens int
	MaxCleanupChars int
	CleanPlainText  bool

	MaxSendSizeMB int
	UseLocalOCR   bool
	OCRLanguages  []string

	MinWorkers  int64
	MaxWorkers  int64
	JobTimeout  time.Duration
	AppendNotes bool

	IndexBackend   string
	BleveIndexPath string
	QdrantHost     string
	QdrantPort     int

	JWTSecret    string
	AuthDisabled bool
	MCPUserID    string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ServerListenAddr),
		IsProd:     getEnvBool("IS_PROD", IS_PROD),
		LogLevel:   parseLevel(getEnv("LOG_LEVEL", "")),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		UseQueue:      getEnvBool("USE_QUEUE", true),

		BlobBackend:  getEnv("BLOB_BACKEND", "local"),
		BlobDir:      getEnv("BLOB_DIR", BlobDir),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Region:     getEnv("AWS_REGION", "us-east-1"),
		S3AccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("AWS_SECRET_KEY", ""),
		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		MaxUploadMiB: int64(getEnvInt("MAX_UPLOAD_MB", int(MaxUploadBytes>>20))),

		LLMProvider:  strings.ToLower(getEnv("LLM_PROVIDER", LLMProviderOpenAI)),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIURL:    getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		MaxRetries:   getEnvInt("LLM_MAX_RETRIES", LLMMaxRetries),
		RetryBase:    getEnvDuration("LLM_RETRY_BASE", LLMRetryBase),
		RetryStep:    getEnvDuration("LLM_RETRY_STEP", LLMRetryStep),
		Temperature:  getEnvFloat("LLM_TEMPERATURE", LLMTemperature),
		MaxTokens:    getEnvInt("LLM_MAX_TOKENS", LLMMaxTokens),

		ChunkSizeTokens: getEnvInt("CHUNK_SIZE_TOKENS", ChunkSizeTokens),
		MaxCleanupChars: getEnvInt("MAX_CLEANUP_CHARS", MaxCleanupChars),
		CleanPlainText:  getEnvBool("CLEAN_PLAIN_TEXT", false),

		MaxSendSizeMB: getEnvInt("MAX_SEND_SIZE_MB", MaxSendSizeMB),
		UseLocalOCR:   getEnvBool("USE_LOCAL_OCR", UseLocalOCR),
		OCRLanguages:  strings.Split(getEnv("OCR_LANGUAGES", OCRLanguages), "+"),

		MinWorkers:  int64(getEnvInt("MIN_WORKERS", int(MinWorkerCount))),
		MaxWorkers:  int64(getEnvInt("MAX_WORKERS", int(MaxWorkerCount))),
		JobTimeout:  getEnvDuration("JOB_TIMEOUT", JobTimeout),
		AppendNotes: getEnvBool("APPEND_TO_NOTE", true),

		IndexBackend:   strings.ToLower(getEnv("INDEX_BACKEND", IndexBackendLog)),
		BleveIndexPath: getEnv("BLEVE_INDEX_PATH", BleveIndexPath),
		QdrantHost:     getEnv("QDRANT_HOST", QdrantHost),
		QdrantPort:     getEnvInt("QDRANT_PORT", QdrantGrpcPort),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		AuthDisabled: getEnvBool("AUTH_DISABLED", false),
		MCPUserID:    getEnv("MCP_USER_ID", LocalUserID),
	}

	defaultText, defaultVision := OpenAIModelText, OpenAIModelVision
	if cfg.LLMProvider == LLMProviderGemini {
		defaultText, defaultVision = GeminiModelName, GeminiModelName
	}
	cfg.ModelText = getEnv("LLM_MODEL_TEXT", defaultText)
	cfg.ModelVision = getEnv("LLM_MODEL_VISION", defaultVision)

	return cfg
}

// MaxSendBytes is the image size above which no remote vision call is made.
func (c *Config) MaxSendBytes() int64 {
	return int64(c.MaxSendSizeMB) << 20
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMiB << 20
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("not a float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("not a bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("not a duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		if IS_PROD {
			return LOG_LEVEL_PROD
		}
		return slog.LevelDebug
	}
}
