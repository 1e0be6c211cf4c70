package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

type textExtractor struct {
	cleaner Cleaner
	clean   bool
	logger  *logger_i.Logger
}

func (e *textExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ingest.Result{}, fmt.Errorf("read text file: %w", err)
	}
	md := ingest.Normalize(decodeUTF8(raw))
	if !e.clean || e.cleaner == nil || md == "" {
		return ingest.OK(md), nil
	}
	cleaned, err := e.cleaner.Convert(ctx, md)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.OK(cleaned), nil
}

// fallbackExtractor reads unknown types as text and refuses binary payloads.
type fallbackExtractor struct {
	logger *logger_i.Logger
}

func (e *fallbackExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		e.logger.WithTrace(ctx).Warn("could not read unknown file type", "error", err)
		return ingest.Degraded("", "unreadable payload"), nil
	}
	if looksBinary(raw) {
		return ingest.Degraded("", "binary payload of unsupported type"), nil
	}
	return ingest.OK(ingest.Normalize(decodeUTF8(raw))), nil
}

// decodeUTF8 replaces invalid sequences with U+FFFD.
func decodeUTF8(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(raw), "�")
}

func looksBinary(raw []byte) bool {
	sample := raw
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if utf8.Valid(sample) {
		return false
	}
	invalid := 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		sample = sample[size:]
	}
	return invalid*10 > len(raw[:min(len(raw), 8192)])
}
