package ingest

import "errors"

// ErrCapabilityMissing marks an optional backend (rasterizer, local OCR engine)
// that is not installed in this process.
var ErrCapabilityMissing = errors.New("capability not available")

// Result is the outcome of one extraction stage. A degraded result still carries
// usable (possibly empty) text plus the reason it is incomplete.
type Result struct {
	Text     string
	Degraded bool
	Reason   string
}

func OK(text string) Result {
	return Result{Text: text}
}

func Degraded(text string, reason string) Result {
	return Result{Text: text, Degraded: true, Reason: reason}
}

func (r Result) IsEmpty() bool {
	return r.Text == ""
}
