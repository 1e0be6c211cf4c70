package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/NotesAPI/internal/blob"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
	"github.com/akolanti/NotesAPI/internal/index"
	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/ingest/extract"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

// time allowed to record the outcome after the job context has expired
const persistTimeout = 10 * time.Second

type ExtractorSource interface {
	For(fileType fileModel.FileType) extract.Extractor
}

type Deps struct {
	Files      fileModel.FileStore
	Notes      noteModel.NoteStore
	Blobs      blob.Store
	Extractors ExtractorSource
	Indexer    index.Indexer
	// AppendToNote adds the Markdown of every processed file to its note.
	AppendToNote bool
}

// Orchestrator drives one stored file from queued to done or error.
type Orchestrator struct {
	files        fileModel.FileStore
	notes        noteModel.NoteStore
	blobs        blob.Store
	extractors   ExtractorSource
	indexer      index.Indexer
	appendToNote bool
	logger       *logger_i.Logger
}

func NewOrchestrator(deps Deps) *Orchestrator {
	indexer := deps.Indexer
	if indexer == nil {
		indexer = index.NewLogIndexer()
	}
	return &Orchestrator{
		files:        deps.Files,
		notes:        deps.Notes,
		blobs:        deps.Blobs,
		extractors:   deps.Extractors,
		indexer:      indexer,
		appendToNote: deps.AppendToNote,
		logger:       logger_i.NewLogger("Orchestrator"),
	}
}

// Process runs the pipeline for fileID. A missing file returns ErrFileNotFound and a
// file that is not queued returns ErrNotQueued; neither mutates anything. Failures
// after the claim are stored on the file as status error and returned.
// Note append and indexing failures are logged only.
func (o *Orchestrator) Process(ctx context.Context, fileID string) (err error) {
	start := time.Now()
	log := o.logger.WithTrace(ctx).With("fileId", fileID)

	file, err := o.files.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, fileModel.ErrFileNotFound) {
			log.Warn("file not found, nothing to process")
		}
		return err
	}

	claimed, err := o.files.MarkProcessing(ctx, fileID)
	if err != nil {
		return fmt.Errorf("claim file: %w", err)
	}
	if !claimed {
		log.Info("file is not queued, skipping", "status", file.Status)
		return fileModel.ErrNotQueued
	}

	persisted := false
	defer func() {
		if r := recover(); r != nil {
			if persisted {
				log.Error("panic after markdown was stored", "panic", r)
			} else {
				err = fmt.Errorf("panic during processing: %v", r)
				o.fail(ctx, fileID, err, log)
			}
		}
		status := fileModel.FileStatusDone
		if err != nil {
			status = fileModel.FileStatusError
		}
		metrics.CaptureFileProcessed(string(status))
		metrics.CaptureProcessMetrics(string(status), time.Since(start))
	}()

	log.Info("processing file", "type", file.EffectiveType(), "filename", file.Filename)
	md, err := o.extract(ctx, file, log)
	if err != nil {
		o.fail(ctx, fileID, err, log)
		return err
	}

	if err := o.files.MarkDone(ctx, fileID, md); err != nil {
		err = fmt.Errorf("persist markdown: %w", err)
		o.fail(ctx, fileID, err, log)
		return err
	}
	persisted = true
	log.Info("file processed", "chars", len(md), "elapsed", time.Since(start))

	o.appendNote(ctx, file, md, log)
	o.index(ctx, file, md, log)
	return nil
}

func (o *Orchestrator) extract(ctx context.Context, file fileModel.StoredFile, log *logger_i.Logger) (string, error) {
	path, release, err := o.blobs.LocalPath(ctx, file.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open payload: %w", err)
	}
	defer release()

	fileType := file.EffectiveType()
	stageStart := time.Now()
	res, err := o.extractors.For(fileType).Extract(ctx, path)
	metrics.CaptureStageMetrics(string(fileType), time.Since(stageStart))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", fileType, err)
	}
	if res.Degraded {
		log.Warn("extraction degraded", "type", fileType, "reason", res.Reason)
		metrics.CaptureDegraded(string(fileType))
	}
	return res.Text, nil
}

func (o *Orchestrator) fail(ctx context.Context, fileID string, cause error, log *logger_i.Logger) {
	msg := cause.Error()
	if msg == "" {
		msg = "processing failed"
	}
	log.Error("file processing failed", "error", cause)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := o.files.MarkError(persistCtx, fileID, msg); err != nil {
		log.Error("could not record processing error", "error", err)
	}
}

func (o *Orchestrator) appendNote(ctx context.Context, file fileModel.StoredFile, md string, log *logger_i.Logger) {
	if !o.appendToNote || o.notes == nil || md == "" {
		return
	}
	if err := o.notes.AppendContent(ctx, file.NoteId, md, ingest.HorizontalRule); err != nil {
		log.Warn("could not append markdown to note", "noteId", file.NoteId, "error", err)
		return
	}
	log.Debug("markdown appended to note", "noteId", file.NoteId)
}

func (o *Orchestrator) index(ctx context.Context, file fileModel.StoredFile, md string, log *logger_i.Logger) {
	if err := o.indexer.Index(ctx, file, md); err != nil {
		log.Warn("indexing failed", "error", err)
	}
}
