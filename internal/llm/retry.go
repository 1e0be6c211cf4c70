package llm

import (
	"context"
	"time"

	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/sethvargo/go-retry"
)

// Retrier repeats failed provider calls with a linearly growing pause of
// Base + n*Step before the n-th retry.
type Retrier struct {
	MaxRetries int
	Base       time.Duration
	Step       time.Duration
}

var retryLogger = logger_i.NewLogger("llm_retry")

func (r Retrier) backoff() retry.Backoff {
	var attempt int64
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return r.Base + time.Duration(attempt)*r.Step, false
	})
	if r.MaxRetries <= 0 {
		return retry.WithMaxRetries(0, linear)
	}
	return retry.WithMaxRetries(uint64(r.MaxRetries), linear)
}

// Complete calls p until it succeeds, fails permanently or the retry budget is spent.
// The last error is returned unwrapped.
func (r Retrier) Complete(ctx context.Context, p Provider, req Request) (string, error) {
	log := retryLogger.WithTrace(ctx).With("model", req.Model)

	var out string
	attempt := 0
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		attempt++
		start := time.Now()
		text, err := p.Complete(ctx, req)
		metrics.CaptureExecutionMetrics("llm", time.Since(start))
		if err != nil {
			metrics.CaptureLLMCall("error")
			log.Error("model call failed", "attempt", attempt, "error", err)
			if IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		metrics.CaptureLLMCall("ok")
		out = text
		return nil
	})
	if err != nil {
		log.Error("model call gave up", "attempts", attempt, "error", err)
		return "", err
	}
	return out, nil
}
