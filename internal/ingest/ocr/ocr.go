package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

const visionInstruction = "Extract all legible text from the image and return it as clean Markdown. " +
	"Correct obvious OCR errors and organize the content into headings, lists and paragraphs where appropriate. " +
	"Respond only with Markdown."

// ErrLocalOCRUnavailable is returned when the binary was built without a local OCR engine.
var ErrLocalOCRUnavailable = fmt.Errorf("local ocr engine: %w", ingest.ErrCapabilityMissing)

// LocalEngine recognizes text lines in an encoded image without network access.
type LocalEngine interface {
	Recognize(ctx context.Context, image []byte) ([]string, error)
}

type Config struct {
	Model       string
	MaxBytes    int64
	MaxTokens   int
	Temperature float64
	Retry       llm.Retrier
}

// Backend turns images into Markdown, preferring a remote vision model and falling
// back to the local engine when one is configured.
type Backend struct {
	vision llm.Provider
	local  LocalEngine
	cfg    Config
	logger *logger_i.Logger
}

// NewBackend builds a Backend. local may be nil.
func NewBackend(vision llm.Provider, local LocalEngine, cfg Config) *Backend {
	return &Backend{
		vision: vision,
		local:  local,
		cfg:    cfg,
		logger: logger_i.NewLogger("ocr"),
	}
}

func (b *Backend) HasLocalEngine() bool {
	return b.local != nil
}

// Recognize never fails. Problems are reported as a bracketed message in a degraded result.
func (b *Backend) Recognize(ctx context.Context, src Source) ingest.Result {
	log := b.logger.WithTrace(ctx)

	data, err := src.Bytes()
	if err != nil {
		log.Error("could not read image", "error", err)
		return ingest.Degraded(fmt.Sprintf("[OCR error: %v]", err), "unreadable image source")
	}
	if len(data) == 0 {
		return ingest.Degraded("[No image content detected]", "empty image")
	}

	if b.cfg.MaxBytes > 0 && int64(len(data)) > b.cfg.MaxBytes {
		msg := fmt.Sprintf("[Image exceeds the %d MB limit (%.2f MB)]", b.cfg.MaxBytes>>20, float64(len(data))/(1024*1024))
		log.Warn("image too large for vision model", "bytes", len(data))
		return ingest.Degraded(msg, "image too large")
	}

	md, visionErr := b.recognizeRemote(ctx, data, src.Ext())
	if visionErr == nil {
		return ingest.OK(md)
	}
	log.Error("vision model failed", "error", visionErr)

	if b.local == nil {
		return ingest.Degraded(fmt.Sprintf("[OCR error via vision model: %v]", visionErr), "vision model failed")
	}

	text, localErr := b.RecognizeLocal(ctx, data)
	if localErr != nil {
		log.Error("local ocr fallback failed", "error", localErr)
		return ingest.Degraded(fmt.Sprintf("[OCR error: %v | fallback failed: %v]", visionErr, localErr), "vision model and local ocr failed")
	}
	return ingest.OK(text)
}

// RecognizeLocal runs only the local engine.
func (b *Backend) RecognizeLocal(ctx context.Context, data []byte) (string, error) {
	if b.local == nil {
		return "", ErrLocalOCRUnavailable
	}
	lines, err := b.local.Recognize(ctx, data)
	if err != nil {
		return "", err
	}
	return ingest.Normalize(strings.Join(lines, "\n")), nil
}

func (b *Backend) recognizeRemote(ctx context.Context, data []byte, ext string) (string, error) {
	if b.vision == nil {
		return "", errors.New("no vision model configured")
	}
	req := llm.Request{
		Model: b.cfg.Model,
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Parts: []llm.Part{
				{Text: visionInstruction},
				{Image: &llm.Image{Data: data, MIMEType: llm.MIMETypeForExt(ext)}},
			},
		}},
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: b.cfg.Temperature,
	}
	out, err := b.cfg.Retry.Complete(ctx, b.vision, req)
	if err != nil {
		return "", err
	}
	return ingest.Normalize(out), nil
}
