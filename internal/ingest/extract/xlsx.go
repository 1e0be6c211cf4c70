package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/xuri/excelize/v2"
)

// header plus ten data rows
const sampleRows = 11

type xlsxExtractor struct {
	cleaner Cleaner
	logger  *logger_i.Logger
}

func (e *xlsxExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	log := e.logger.WithTrace(ctx)

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Warn("could not open workbook", "error", err)
		return ingest.Degraded("", "malformed xlsx"), nil
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error("could not close workbook", "error", err)
		}
	}()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Warn("could not read sheet", "sheet", sheet, "error", err)
			continue
		}
		if len(rows) == 0 {
			continue
		}

		sample, err := toCSV(rows[:min(len(rows), sampleRows)])
		if err != nil {
			log.Warn("could not encode sheet sample", "sheet", sheet, "error", err)
			continue
		}

		md, err := e.cleaner.CleanToMarkdown(ctx, sheetPrompt(sheet, sample), "")
		if err != nil {
			return ingest.Result{}, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		sections = append(sections, fmt.Sprintf("## Sheet: %s\n\n%s", sheet, md))
	}
	return ingest.OK(strings.Join(sections, "\n\n")), nil
}

func sheetPrompt(sheet string, sample string) string {
	return fmt.Sprintf("Sheet: %s\nSample rows:\n%s\n\nWrite a short summary and a Markdown table with the 5 most important insights.", sheet, sample)
}

func toCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
