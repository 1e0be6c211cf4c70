package extract

import (
	"context"
	"strings"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/lu4p/cat"
)

type docxExtractor struct {
	cleaner Cleaner
	logger  *logger_i.Logger
}

func (e *docxExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	log := e.logger.WithTrace(ctx)

	text, err := cat.File(path)
	if err != nil {
		log.Warn("could not read docx", "error", err)
		return ingest.Degraded("", "malformed docx"), nil
	}

	raw := ingest.Normalize(joinParagraphs(text))
	if raw == "" {
		return ingest.OK(""), nil
	}

	md, err := e.cleaner.Convert(ctx, raw)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.OK(md), nil
}

// joinParagraphs keeps the non-blank lines and separates them with a blank line.
func joinParagraphs(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
