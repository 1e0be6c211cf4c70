//go:build tesseract

package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

type tesseractEngine struct {
	languages []string
}

// NewLocalEngine returns a Tesseract-backed engine for the given languages (e.g. "spa", "eng").
func NewLocalEngine(languages []string) (LocalEngine, error) {
	return &tesseractEngine{languages: languages}, nil
}

func (t *tesseractEngine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return nil, err
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, err
	}
	text, err := client.Text()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
