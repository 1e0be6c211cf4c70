package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/akolanti/NotesAPI/internal/ingest"
)

// Rasterizer renders every page of a PDF to an encoded PNG image.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string) ([][]byte, error)
}

type pdftoppmRasterizer struct {
	binary string
	dpi    int
}

type missingRasterizer struct{}

func (missingRasterizer) Rasterize(ctx context.Context, pdfPath string) ([][]byte, error) {
	return nil, fmt.Errorf("pdftoppm: %w", ingest.ErrCapabilityMissing)
}

// NewPdftoppmRasterizer uses Poppler's pdftoppm when it is on PATH.
func NewPdftoppmRasterizer(dpi int) Rasterizer {
	binary, err := exec.LookPath("pdftoppm")
	if err != nil {
		return missingRasterizer{}
	}
	return &pdftoppmRasterizer{binary: binary, dpi: dpi}
}

func (r *pdftoppmRasterizer) Rasterize(ctx context.Context, pdfPath string) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "pdfpages-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.binary, "-png", "-r", strconv.Itoa(r.dpi), pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, out)
	}

	files, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page images generated from pdf")
	}
	// pdftoppm zero-pads page numbers to the same width
	sort.Strings(files)

	pages := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		pages = append(pages, data)
	}
	return pages, nil
}
