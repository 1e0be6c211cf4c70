package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/metrics"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

type PoolConfig struct {
	MinWorkers  int64
	MaxWorkers  int64
	BufferLimit int
	// GrowAfter is the backlog that makes the dispatcher add a worker.
	GrowAfter   int64
	IdleTimeout time.Duration
	JobTimeout  time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinWorkers:  config.MinWorkerCount,
		MaxWorkers:  config.MaxWorkerCount,
		BufferLimit: config.BufferLimit,
		GrowAfter:   config.RequestsPerNewWorkerCount,
		IdleTimeout: config.IdleWorkerTimeout,
		JobTimeout:  config.JobTimeout,
	}
}

type poolJob struct {
	fileID  string
	traceID any
}

// Handoff takes back jobs that were buffered but never started when the pool stopped.
type Handoff interface {
	Requeue(ctx context.Context, fileID, traceID string) error
}

// WorkerPool is the inline dispatcher: an elastic set of goroutines between
// MinWorkers and MaxWorkers reading from a buffered channel.
type WorkerPool struct {
	process ProcessFunc
	cfg     PoolConfig

	jobChannel         chan poolJob
	dispatcherChannel  chan struct{}
	stopWorkerChannel  chan struct{}
	stopOnce           sync.Once
	workerWaitGroup    sync.WaitGroup
	currentWorkerCount int64
	handoff            Handoff
	logger             *logger_i.Logger

	// mu guards closed; senders and workerWaitGroup.Add hold the read side.
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(process ProcessFunc, cfg PoolConfig) *WorkerPool {
	if cfg.MinWorkers < 1 {
		cfg.MinWorkers = 1
	}
	if cfg.MaxWorkers < cfg.MinWorkers {
		cfg.MaxWorkers = cfg.MinWorkers
	}
	if cfg.GrowAfter < 1 {
		cfg.GrowAfter = 1
	}
	return &WorkerPool{
		process:           process,
		cfg:               cfg,
		jobChannel:        make(chan poolJob, cfg.BufferLimit),
		dispatcherChannel: make(chan struct{}, 1),
		stopWorkerChannel: make(chan struct{}),
		logger:            logger_i.NewLogger("WorkerPool"),
	}
}

// WithHandoff sets where Stop sends buffered jobs. Call it before Stop can run.
func (p *WorkerPool) WithHandoff(h Handoff) {
	p.handoff = h
}

// Start launches the minimum number of workers and the dispatcher that grows the pool.
func (p *WorkerPool) Start() {
	p.logger.Info("Initializing worker pool", "min", p.cfg.MinWorkers, "max", p.cfg.MaxWorkers)
	for i := int64(0); i < p.cfg.MinWorkers; i++ {
		p.createWorker()
	}
	go p.dispatcher()
}

// Submit never blocks. When the buffer is full the job runs in its own goroutine.
func (p *WorkerPool) Submit(ctx context.Context, fileID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.stopped() {
		return ErrPoolStopped
	}
	job := poolJob{fileID: fileID, traceID: ctx.Value(config.TRACE_ID_KEY)}
	select {
	case p.jobChannel <- job:
		metrics.IncrementFilesInQueue()
		metrics.CaptureDispatch("pool")
		p.signalDispatcher()
	default:
		p.logger.WithTrace(ctx).Warn("worker buffer full, running job detached", "fileId", fileID)
		metrics.CaptureDispatch("overflow")
		p.workerWaitGroup.Add(1)
		go func() {
			defer p.workerWaitGroup.Done()
			p.executeJob(job)
		}()
	}
	return nil
}

// Enqueue waits for buffer space instead of overflowing. Used by the queue consumer
// so a long queue does not turn into unbounded goroutines.
func (p *WorkerPool) Enqueue(ctx context.Context, fileID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.stopped() {
		return ErrPoolStopped
	}
	job := poolJob{fileID: fileID, traceID: ctx.Value(config.TRACE_ID_KEY)}
	select {
	case p.jobChannel <- job:
		metrics.IncrementFilesInQueue()
		p.signalDispatcher()
		return nil
	case <-p.stopWorkerChannel:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop retires every worker and waits for running jobs until ctx ends.
// Jobs still buffered are given to the handoff; without one they are logged
// and the files stay queued in storage.
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopWorkerChannel)
	})
	// Enqueue selects on stopWorkerChannel, so every sender has let go of the
	// read lock by the time this returns.
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.workerWaitGroup.Wait()
		close(done)
	}()
	var err error
	select {
	case <-done:
		p.logger.Info("Worker pool stopped")
	case <-ctx.Done():
		err = ctx.Err()
	}
	p.drain(ctx)
	return err
}

// drain empties the buffer once nothing can send to it any more.
func (p *WorkerPool) drain(ctx context.Context) {
	for {
		select {
		case job := <-p.jobChannel:
			metrics.DecrementFilesInQueue()
			p.handBack(ctx, job)
		default:
			return
		}
	}
}

func (p *WorkerPool) handBack(ctx context.Context, job poolJob) {
	traceID, _ := job.traceID.(string)
	log := p.logger.With("fileId", job.fileID, "traceId", traceID)
	if p.handoff == nil {
		log.Warn("buffered job not started before shutdown, file left queued")
		return
	}
	// the caller's ctx may already be spent on waiting for workers
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.RedisPingTimeout)
	defer cancel()
	if err := p.handoff.Requeue(hctx, job.fileID, traceID); err != nil {
		log.Error("could not hand back buffered job, file left queued", "error", err)
		return
	}
	log.Info("buffered job handed back")
}

func (p *WorkerPool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.currentWorkerCount)
}

func (p *WorkerPool) stopped() bool {
	select {
	case <-p.stopWorkerChannel:
		return true
	default:
		return false
	}
}

func (p *WorkerPool) signalDispatcher() {
	if int64(len(p.jobChannel)) < p.cfg.GrowAfter {
		return
	}
	select {
	case p.dispatcherChannel <- struct{}{}:
	default:
	}
}

func (p *WorkerPool) dispatcher() {
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.stopWorkerChannel:
			return
		case <-p.dispatcherChannel:
			if atomic.LoadInt64(&p.currentWorkerCount) < p.cfg.MaxWorkers {
				p.logger.Info("Creating new worker", "workerCount", p.WorkerCount())
				p.createWorker()
			}
		}
	}
}

func (p *WorkerPool) createWorker() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.stopped() {
		return
	}
	p.workerWaitGroup.Add(1)
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *WorkerPool) worker() {
	idle := time.NewTimer(p.cfg.IdleTimeout)
	defer idle.Stop()
	for {
		select {
		case job := <-p.jobChannel:
			metrics.DecrementFilesInQueue()
			p.executeJob(job)
			idle.Reset(p.cfg.IdleTimeout)

		case <-p.stopWorkerChannel:
			p.removeWorker("Stop worker signal received", true)
			return

		case <-idle.C:
			if p.retireIfAboveMin() {
				p.removeWorker("Idle worker timeout", false)
				return
			}
			idle.Reset(p.cfg.IdleTimeout)
		}
	}
}

// retireIfAboveMin claims one slot above MinWorkers for retirement.
func (p *WorkerPool) retireIfAboveMin() bool {
	for {
		count := atomic.LoadInt64(&p.currentWorkerCount)
		if count <= p.cfg.MinWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.currentWorkerCount, count, count-1) {
			return true
		}
	}
}

// removeWorker releases a worker. decrement is false when retireIfAboveMin already
// took it off the count.
func (p *WorkerPool) removeWorker(reason string, decrement bool) {
	if decrement {
		atomic.AddInt64(&p.currentWorkerCount, -1)
	}
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", p.WorkerCount())
	p.workerWaitGroup.Done()
}

func (p *WorkerPool) executeJob(job poolJob) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.traceID)
	ctx, cancel := context.WithTimeout(ctxTrace, p.cfg.JobTimeout)
	defer cancel()
	log := p.logger.WithTrace(ctx).With("fileId", job.fileID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", "panic", r)
		}
	}()

	log.Debug("Processing file")
	err := p.process(ctx, job.fileID)
	switch {
	case err == nil:
		log.Debug("File processed")
	case errors.Is(err, fileModel.ErrNotQueued), errors.Is(err, fileModel.ErrFileNotFound):
		log.Info("Nothing to process", "reason", err)
	default:
		log.Error("File processing failed", "error", err)
	}
}
