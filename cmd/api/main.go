// @title           Notes API
// @version         1.0
// @description     Study notes with document to Markdown conversion and AI study tools
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/akolanti/NotesAPI/cmd/api/docs"
	"github.com/akolanti/NotesAPI/internal/aitools"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/customHttpClient"
	"github.com/akolanti/NotesAPI/internal/dispatch"
	"github.com/akolanti/NotesAPI/internal/files"
	"github.com/akolanti/NotesAPI/internal/handlers"
	"github.com/akolanti/NotesAPI/internal/ingest/cleanup"
	"github.com/akolanti/NotesAPI/internal/ingest/extract"
	"github.com/akolanti/NotesAPI/internal/ingest/ocr"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/internal/middleware"
	"github.com/akolanti/NotesAPI/internal/pipeline"
	"github.com/akolanti/NotesAPI/internal/server"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var listenAddr string

func main() {
	cfg := config.Load()
	logger_i.Init(cfg.LogLevel, cfg.IsProd)
	var logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", cfg.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	fileStore, noteStore := buildStores(serviceContext, cfg)
	blobs, err := buildBlobStore(serviceContext, cfg)
	if err != nil {
		logger.Error("Blob store is unavailable. Shutting down.", "backend", cfg.BlobBackend, "error", err)
		return
	}

	httpClient := customHttpClient.NewClient(config.LLMConnectionTimout)
	provider := buildProvider(serviceContext, cfg, httpClient)
	retrier := llm.Retrier{MaxRetries: cfg.MaxRetries, Base: cfg.RetryBase, Step: cfg.RetryStep}

	cleaner := cleanup.NewCleaner(provider, cleanup.Config{
		Model:       cfg.ModelText,
		MaxChars:    cfg.MaxCleanupChars,
		ChunkTokens: cfg.ChunkSizeTokens,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Retry:       retrier,
	})

	var localOCR ocr.LocalEngine
	if cfg.UseLocalOCR {
		if localOCR, err = ocr.NewLocalEngine(cfg.OCRLanguages); err != nil {
			logger.Warn("Local OCR requested but unavailable", "error", err)
			localOCR = nil
		}
	}
	ocrBackend := ocr.NewBackend(provider, localOCR, ocr.Config{
		Model:       cfg.ModelVision,
		MaxBytes:    cfg.MaxSendBytes(),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Retry:       retrier,
	})

	extractors := extract.NewSet(extract.Deps{
		Cleaner:        cleaner,
		OCR:            ocrBackend,
		Rasterizer:     extract.NewPdftoppmRasterizer(config.RasterDPI),
		CleanPlainText: cfg.CleanPlainText,
	})

	indexer, searcher := buildIndex(serviceContext, cfg, httpClient)

	orchestrator := pipeline.NewOrchestrator(pipeline.Deps{
		Files:        fileStore,
		Notes:        noteStore,
		Blobs:        blobs,
		Extractors:   extractors,
		Indexer:      indexer,
		AppendToNote: cfg.AppendNotes,
	})

	//init worker pool
	poolConfig := dispatch.DefaultPoolConfig()
	poolConfig.MinWorkers = cfg.MinWorkers
	poolConfig.MaxWorkers = cfg.MaxWorkers
	poolConfig.JobTimeout = cfg.JobTimeout
	pool := dispatch.NewWorkerPool(orchestrator.Process, poolConfig)
	pool.Start()

	dispatcher := buildDispatcher(serviceContext, cfg, pool)

	fileService := files.NewService(fileStore, noteStore, blobs, dispatcher, cfg.MaxUploadBytes())
	tools := aitools.NewService(provider, cfg.ModelText, retrier)
	attachSummaryCache(serviceContext, cfg, tools)

	handler := handlers.NewHandler(fileService, tools, searcher, cfg.MaxUploadBytes())
	mw := middleware.New(middleware.DefaultConfig(cfg.JWTSecret, cfg.AuthDisabled))
	srv := server.CreateServer(listenAddr, server.NewRouter(handler, mw))

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		StopWorkers:      pool.Stop,
		CloseServices:    closeExternalServices,
	}
	go srv.ShutDownHandler(shutdownParams)
	go srv.ListenAndServe()

	<-stopExecution
	logger.Info("Server stopped")
}
