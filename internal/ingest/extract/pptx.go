package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"code.sajari.com/docconv"
	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// a shape start and a paragraph start each begin a line, so shapes end up separated by a blank line
var slideBreaks = []string{"sp", "p", "br"}

type pptxExtractor struct {
	cleaner Cleaner
	logger  *logger_i.Logger
}

func (e *pptxExtractor) Extract(ctx context.Context, path string) (ingest.Result, error) {
	log := e.logger.WithTrace(ctx)

	slides, err := readSlides(path)
	if err != nil {
		log.Warn("could not read presentation", "error", err)
		return ingest.Degraded("", "malformed pptx"), nil
	}

	var sections []string
	for i, slideText := range slides {
		if slideText == "" {
			continue
		}
		md, err := e.cleaner.CleanToMarkdown(ctx, slideText, "")
		if err != nil {
			return ingest.Result{}, fmt.Errorf("slide %d: %w", i+1, err)
		}
		sections = append(sections, fmt.Sprintf("### Slide %d\n\n%s", i+1, md))
	}
	return ingest.OK(strings.Join(sections, "\n\n")), nil
}

// readSlides returns the text of every slide in slide order.
func readSlides(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	type slideFile struct {
		number int
		file   *zip.File
	}
	var files []slideFile
	for _, f := range r.File {
		m := slideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		files = append(files, slideFile{number: n, file: f})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no slides found")
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	slides := make([]string, 0, len(files))
	for _, sf := range files {
		rc, err := sf.file.Open()
		if err != nil {
			return nil, err
		}
		text, err := docconv.XMLToText(rc, slideBreaks, nil, true)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sf.file.Name, err)
		}
		slides = append(slides, tidySlide(text))
	}
	return slides, nil
}

func tidySlide(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return ingest.Normalize(strings.Join(lines, "\n"))
}
