//go:build !tesseract

package ocr

// NewLocalEngine reports ErrLocalOCRUnavailable; build with -tags tesseract to enable it.
func NewLocalEngine(languages []string) (LocalEngine, error) {
	return nil, ErrLocalOCRUnavailable
}
