package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/ingest/ocr"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/dslipak/pdf"
)

const pageExtractTimeout = 10 * time.Second

type pdfExtractor struct {
	cleaner    Cleaner
	ocr        Recognizer
	rasterizer Rasterizer
	logger     *logger_i.Logger
}

// Extract tries the embedded text layer, then OCR of the rendered pages, then the
// local OCR engine on the same pages. Nothing legible yields an empty degraded result.
func (e *pdfExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	log := e.logger.WithTrace(ctx).With("path", path)

	text, err := e.textLayer(path, log)
	if err != nil {
		log.Warn("pdf text layer unavailable", "error", err)
	}
	if strings.TrimSpace(text) != "" {
		log.Info("pdf text layer extracted")
		md, err := e.cleaner.Convert(ctx, ingest.Normalize(text))
		if err != nil {
			return ingest.Result{}, err
		}
		return ingest.OK(md), nil
	}

	if e.rasterizer == nil || e.ocr == nil {
		return ingest.Degraded("", "pdf has no text layer and page rendering is not available"), nil
	}
	pages, err := e.rasterizer.Rasterize(ctx, path)
	if err != nil {
		log.Warn("could not render pdf pages", "error", err)
		if errors.Is(err, ingest.ErrCapabilityMissing) {
			return ingest.Degraded("", "pdf has no text layer and page rendering is not available"), nil
		}
		return ingest.Degraded("", fmt.Sprintf("pdf rendering failed: %v", err)), nil
	}

	sections := make([]string, 0, len(pages))
	legible := false
	for i, page := range pages {
		res := e.ocr.Recognize(ctx, ocr.FromBytes(page, "png"))
		if res.Degraded {
			log.Warn("page ocr degraded", "page", i+1, "reason", res.Reason)
		} else if res.Text != "" {
			legible = true
		}
		sections = append(sections, res.Text)
	}
	if legible {
		return ingest.OK(ingest.JoinSections(sections, ingest.HorizontalRule)), nil
	}

	if !e.ocr.HasLocalEngine() {
		return ingest.Degraded("", "no legible text in rendered pages"), nil
	}
	log.Info("trying local ocr on rendered pages")
	sections = sections[:0]
	for i, page := range pages {
		text, err := e.ocr.RecognizeLocal(ctx, page)
		if err != nil {
			log.Warn("local ocr failed for page", "page", i+1, "error", err)
			continue
		}
		sections = append(sections, text)
	}
	if md := ingest.Normalize(ingest.JoinSections(sections, ingest.HorizontalRule)); md != "" {
		return ingest.OK(md), nil
	}
	return ingest.Degraded("", "no legible text in rendered pages"), nil
}

func (e *pdfExtractor) textLayer(path string, log *logger_i.Logger) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	numPages := f.NumPage()
	log.Debug("extracting pdf text layer", "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			log.Warn("error parsing page content", "page", i, "error", err)
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n\n"), nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
