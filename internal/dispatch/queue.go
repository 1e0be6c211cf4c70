package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

const consumerErrorPause = time.Second

// Queue is a list based broker; *redisStore.Store satisfies it.
type Queue interface {
	ListPush(ctx context.Context, key string, value interface{}) error
	ListBlockingPop(ctx context.Context, key string, timeout time.Duration) (string, bool, error)
}

type queueMessage struct {
	FileID  string `json:"file_id"`
	TraceID string `json:"trace_id,omitempty"`
}

// QueueDispatcher pushes file ids onto a durable list. When the push fails the
// file goes to the fallback dispatcher instead.
type QueueDispatcher struct {
	queue    Queue
	key      string
	fallback Dispatcher
	logger   *logger_i.Logger
}

func NewQueueDispatcher(queue Queue, key string, fallback Dispatcher) *QueueDispatcher {
	return &QueueDispatcher{
		queue:    queue,
		key:      key,
		fallback: fallback,
		logger:   logger_i.NewLogger("QueueDispatcher"),
	}
}

func (d *QueueDispatcher) Submit(ctx context.Context, fileID string) error {
	log := d.logger.WithTrace(ctx).With("fileId", fileID)
	traceID, _ := ctx.Value(config.TRACE_ID_KEY).(string)

	pushCtx, cancel := context.WithTimeout(ctx, config.RedisPingTimeout)
	defer cancel()
	if err := d.push(pushCtx, fileID, traceID); err != nil {
		log.Warn("queue unavailable, processing inline", "error", err)
		metrics.CaptureDispatch("inline_fallback")
		return d.fallback.Submit(ctx, fileID)
	}
	metrics.CaptureDispatch("queue")
	log.Debug("file queued")
	return nil
}

// Requeue puts a file back on the list without the inline fallback. The pool
// calls it on shutdown for jobs it had buffered but not started.
func (d *QueueDispatcher) Requeue(ctx context.Context, fileID, traceID string) error {
	return d.push(ctx, fileID, traceID)
}

func (d *QueueDispatcher) push(ctx context.Context, fileID, traceID string) error {
	data, err := json.Marshal(queueMessage{FileID: fileID, TraceID: traceID})
	if err != nil {
		return err
	}
	return d.queue.ListPush(ctx, d.key, data)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, fileID string) error
}

// QueueConsumer moves file ids from the durable list into the worker pool.
type QueueConsumer struct {
	queue        Queue
	key          string
	pool         Enqueuer
	blockTimeout time.Duration
	logger       *logger_i.Logger
}

func NewQueueConsumer(queue Queue, key string, pool Enqueuer) *QueueConsumer {
	return &QueueConsumer{
		queue:        queue,
		key:          key,
		pool:         pool,
		blockTimeout: config.RedisBlockTimeout,
		logger:       logger_i.NewLogger("QueueConsumer"),
	}
}

// Run pops until ctx ends. A message popped while the pool is shutting down is pushed back.
func (c *QueueConsumer) Run(ctx context.Context) error {
	c.logger.Info("Queue consumer started", "key", c.key)
	for {
		if ctx.Err() != nil {
			c.logger.Info("Queue consumer stopped")
			return nil
		}

		value, ok, err := c.queue.ListBlockingPop(ctx, c.key, c.blockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.Error("queue pop failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(consumerErrorPause):
			}
			continue
		}
		if !ok {
			continue
		}

		msg, err := decodeMessage(value)
		if err != nil {
			c.logger.Error("dropping malformed queue message", "value", value, "error", err)
			continue
		}

		jobCtx := ctx
		if msg.TraceID != "" {
			jobCtx = context.WithValue(ctx, config.TRACE_ID_KEY, msg.TraceID)
		}
		if err := c.pool.Enqueue(jobCtx, msg.FileID); err != nil {
			c.requeue(value, err)
			if errors.Is(err, ErrPoolStopped) {
				return err
			}
		}
	}
}

func (c *QueueConsumer) requeue(value string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.RedisPingTimeout)
	defer cancel()
	if err := c.queue.ListPush(ctx, c.key, value); err != nil {
		c.logger.Error("lost queue message", "value", value, "cause", cause, "error", err)
		return
	}
	c.logger.Warn("queue message pushed back", "cause", cause)
}

func decodeMessage(value string) (queueMessage, error) {
	var msg queueMessage
	if err := json.Unmarshal([]byte(value), &msg); err != nil {
		return msg, err
	}
	if msg.FileID == "" {
		return msg, fmt.Errorf("missing file id")
	}
	return msg, nil
}
