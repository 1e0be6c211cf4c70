package extract

import (
	"context"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/ingest/ocr"
)

type imageExtractor struct {
	ocr Recognizer
}

func (e *imageExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	if e.ocr == nil {
		return ingest.Degraded("", "no ocr backend"), nil
	}
	return e.ocr.Recognize(ctx, ocr.FromPath(path)), nil
}
