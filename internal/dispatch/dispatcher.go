package dispatch

import (
	"context"
	"errors"
)

var ErrPoolStopped = errors.New("worker pool stopped")

// ProcessFunc runs the pipeline for one file.
type ProcessFunc func(ctx context.Context, fileID string) error

// Dispatcher hands a file to background processing and returns without waiting for it.
//
// Delivery is at-least-once in intent only: a file may be processed more than once
// (the queued->processing claim turns repeats into no-ops) and nothing is exactly-once.
// Work accepted by the inline pool lives in memory. On a clean Stop the jobs it
// buffered but never started go back to the queue when one is configured.
type Dispatcher interface {
	Submit(ctx context.Context, fileID string) error
}
