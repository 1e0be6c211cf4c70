package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/NotesAPI/internal/aitools"
	"github.com/akolanti/NotesAPI/internal/blob"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/customHttpClient"
	"github.com/akolanti/NotesAPI/internal/data/postgresStore"
	"github.com/akolanti/NotesAPI/internal/files"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/internal/llm/gemini"
	"github.com/akolanti/NotesAPI/internal/llm/openaiLLM"
	"github.com/akolanti/NotesAPI/internal/mcptools"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "1.0"

// The MCP server reads the same database as the API, so DATABASE_URL is required.
// Stdout carries the protocol; logs go to stderr.
func main() {
	cfg := config.Load()
	logger_i.InitWithWriter(os.Stderr, cfg.LogLevel, cfg.IsProd)
	logger := logger_i.NewLogger("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := postgresStore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Postgres is offline", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	blobs, err := blob.NewLocalStore(cfg.BlobDir)
	if err != nil {
		logger.Error("Blob store is unavailable", "error", err)
		os.Exit(1)
	}

	httpClient := customHttpClient.NewClient(config.LLMConnectionTimout)
	var provider llm.Provider
	if cfg.LLMProvider == config.LLMProviderGemini {
		provider = gemini.NewClient(ctx, cfg.GeminiAPIKey, httpClient)
	} else {
		provider = openaiLLM.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIURL, httpClient)
	}
	retrier := llm.Retrier{MaxRetries: cfg.MaxRetries, Base: cfg.RetryBase, Step: cfg.RetryStep}

	// read-only: no dispatcher, uploads are not exposed
	fileService := files.NewService(postgresStore.NewFileStore(db), postgresStore.NewNoteStore(db), blobs, nil, cfg.MaxUploadBytes())
	tools := mcptools.New(fileService, aitools.NewService(provider, cfg.ModelText, retrier), cfg.MCPUserID)

	if err := tools.NewServer(version).Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", "error", err)
	}
}
