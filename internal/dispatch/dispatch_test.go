package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/data/redisStore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// MockProcessor records which files reached the pipeline
type MockProcessor struct {
	mu        sync.Mutex
	Processed []string
	Count     int32
	OnProcess func(ctx context.Context, fileID string) error
}

func (m *MockProcessor) Process(ctx context.Context, fileID string) error {
	m.mu.Lock()
	m.Processed = append(m.Processed, fileID)
	m.mu.Unlock()
	atomic.AddInt32(&m.Count, 1)
	if m.OnProcess != nil {
		return m.OnProcess(ctx, fileID)
	}
	return nil
}

type MockDispatcher struct {
	Submitted []string
}

func (m *MockDispatcher) Submit(ctx context.Context, fileID string) error {
	m.Submitted = append(m.Submitted, fileID)
	return nil
}

func testConfig() PoolConfig {
	return PoolConfig{
		MinWorkers:  1,
		MaxWorkers:  3,
		BufferLimit: 10,
		GrowAfter:   1,
		IdleTimeout: 50 * time.Millisecond,
		JobTimeout:  time.Second,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func stopPool(t *testing.T, p *WorkerPool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestWorkerPool_ProcessesSubmittedFiles(t *testing.T) {
	proc := &MockProcessor{}
	pool := NewWorkerPool(proc.Process, testConfig())
	pool.Start()
	defer stopPool(t, pool)

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := pool.Submit(context.Background(), id); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}
	waitFor(t, "all files processed", func() bool { return atomic.LoadInt32(&proc.Count) == 4 })
}

func TestWorkerPool_JobContext(t *testing.T) {
	var gotTrace any
	var hasDeadline bool
	done := make(chan struct{})
	proc := &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		gotTrace = ctx.Value(config.TRACE_ID_KEY)
		_, hasDeadline = ctx.Deadline()
		close(done)
		return nil
	}}
	pool := NewWorkerPool(proc.Process, testConfig())
	pool.Start()
	defer stopPool(t, pool)

	// the request context is cancelled right after the handler returns
	reqCtx, cancel := context.WithCancel(context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-1"))
	if err := pool.Submit(reqCtx, "f1"); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	if gotTrace != "trace-1" {
		t.Errorf("trace id not carried, got %v", gotTrace)
	}
	if !hasDeadline {
		t.Error("job context should carry the job timeout")
	}
}

func TestWorkerPool_OverflowRunsDetached(t *testing.T) {
	release := make(chan struct{})
	proc := &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		<-release
		return nil
	}}
	cfg := testConfig()
	cfg.BufferLimit = 0
	cfg.MaxWorkers = 1
	pool := NewWorkerPool(proc.Process, cfg)
	pool.Start()

	for i := 0; i < 5; i++ {
		if err := pool.Submit(context.Background(), "f"); err != nil {
			t.Fatalf("submit never fails while running: %v", err)
		}
	}
	waitFor(t, "every submission started", func() bool { return atomic.LoadInt32(&proc.Count) == 5 })
	close(release)
	stopPool(t, pool)
}

func TestWorkerPool_ErrorsAndPanicsDoNotKillWorkers(t *testing.T) {
	proc := &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		switch fileID {
		case "boom":
			panic("extractor exploded")
		case "fail":
			return errors.New("failed")
		}
		return nil
	}}
	cfg := testConfig()
	cfg.MaxWorkers = 1
	pool := NewWorkerPool(proc.Process, cfg)
	pool.Start()
	defer stopPool(t, pool)

	for _, id := range []string{"boom", "fail", "ok"} {
		_ = pool.Submit(context.Background(), id)
	}
	waitFor(t, "all three processed", func() bool { return atomic.LoadInt32(&proc.Count) == 3 })
	if pool.WorkerCount() != 1 {
		t.Errorf("expected the single worker to survive, got %d", pool.WorkerCount())
	}
}

func TestWorkerPool_GrowsAndRetiresToMin(t *testing.T) {
	release := make(chan struct{})
	proc := &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		<-release
		return nil
	}}
	pool := NewWorkerPool(proc.Process, testConfig())
	pool.Start()
	defer stopPool(t, pool)

	for i := 0; i < 6; i++ {
		_ = pool.Submit(context.Background(), "f")
	}
	waitFor(t, "pool to grow", func() bool { return pool.WorkerCount() > 1 })
	if pool.WorkerCount() > 3 {
		t.Errorf("pool grew past max: %d", pool.WorkerCount())
	}

	close(release)
	waitFor(t, "idle workers to retire", func() bool { return pool.WorkerCount() == 1 })
}

func TestWorkerPool_StopWaitsAndRejects(t *testing.T) {
	var finished int32
	proc := &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		time.Sleep(50 * time.Millisecond)
		atomic.StoreInt32(&finished, 1)
		return nil
	}}
	pool := NewWorkerPool(proc.Process, testConfig())
	pool.Start()

	_ = pool.Submit(context.Background(), "slow")
	waitFor(t, "job to start", func() bool { return atomic.LoadInt32(&proc.Count) == 1 })
	stopPool(t, pool)

	if atomic.LoadInt32(&finished) != 1 {
		t.Error("stop returned before the running job finished")
	}
	if err := pool.Submit(context.Background(), "late"); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped, got %v", err)
	}
	if err := pool.Enqueue(context.Background(), "late"); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped from Enqueue, got %v", err)
	}
}

func newQueue(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func TestQueue_RoundTrip(t *testing.T) {
	mr, rs := newQueue(t)
	proc := &MockProcessor{}
	var gotTrace atomic.Value
	proc.OnProcess = func(ctx context.Context, fileID string) error {
		if v, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
			gotTrace.Store(v)
		}
		return nil
	}
	cfg := testConfig()
	cfg.MaxWorkers = 1
	pool := NewWorkerPool(proc.Process, cfg)
	pool.Start()
	defer stopPool(t, pool)

	fallback := &MockDispatcher{}
	d := NewQueueDispatcher(rs, "test:queue", fallback)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-q")
	for _, id := range []string{"f1", "f2"} {
		if err := d.Submit(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if items, _ := mr.List("test:queue"); len(items) != 2 {
		t.Fatalf("expected 2 queued messages, got %v", items)
	}

	consumer := NewQueueConsumer(rs, "test:queue", pool)
	consumer.blockTimeout = time.Second
	runCtx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- consumer.Run(runCtx) }()

	waitFor(t, "queued files processed", func() bool { return atomic.LoadInt32(&proc.Count) == 2 })
	cancel()
	if err := <-stopped; err != nil {
		t.Errorf("consumer returned %v", err)
	}

	proc.mu.Lock()
	order := append([]string(nil), proc.Processed...)
	proc.mu.Unlock()
	if order[0] != "f1" {
		t.Errorf("expected FIFO order, got %v", order)
	}
	if gotTrace.Load() != "trace-q" {
		t.Errorf("trace id lost across the queue: %v", gotTrace.Load())
	}
	if len(fallback.Submitted) != 0 {
		t.Errorf("fallback used while redis was up: %v", fallback.Submitted)
	}
}

func TestQueueDispatcher_FallsBackWhenRedisDown(t *testing.T) {
	mr, rs := newQueue(t)
	mr.Close()

	fallback := &MockDispatcher{}
	d := NewQueueDispatcher(rs, "test:queue", fallback)
	if err := d.Submit(context.Background(), "f1"); err != nil {
		t.Fatalf("fallback should absorb the failure: %v", err)
	}
	if len(fallback.Submitted) != 1 || fallback.Submitted[0] != "f1" {
		t.Errorf("expected inline fallback for f1, got %v", fallback.Submitted)
	}
}

func TestQueueConsumer_SkipsMalformedMessages(t *testing.T) {
	mr, rs := newQueue(t)
	proc := &MockProcessor{}
	pool := NewWorkerPool(proc.Process, testConfig())
	pool.Start()
	defer stopPool(t, pool)

	mr.Lpush("test:queue", "not json")
	mr.Lpush("test:queue", `{"trace_id":"x"}`)
	mr.Lpush("test:queue", `{"file_id":"good"}`)

	consumer := NewQueueConsumer(rs, "test:queue", pool)
	consumer.blockTimeout = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = consumer.Run(ctx) }()

	waitFor(t, "good message processed", func() bool { return atomic.LoadInt32(&proc.Count) == 1 })
	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&proc.Count); n != 1 {
		t.Errorf("malformed messages reached the pipeline: %d", n)
	}
}

type MockHandoff struct {
	mu       sync.Mutex
	FileIDs  []string
	TraceIDs []string
}

func (m *MockHandoff) Requeue(ctx context.Context, fileID, traceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FileIDs = append(m.FileIDs, fileID)
	m.TraceIDs = append(m.TraceIDs, traceID)
	return nil
}

// blockUntilStopped holds the only worker busy until Stop is called.
func blockUntilStopped(pool **WorkerPool) *MockProcessor {
	return &MockProcessor{OnProcess: func(ctx context.Context, fileID string) error {
		<-(*pool).stopWorkerChannel
		return nil
	}}
}

func singleWorkerConfig() PoolConfig {
	cfg := testConfig()
	cfg.MaxWorkers = 1
	cfg.GrowAfter = 100
	cfg.IdleTimeout = time.Minute
	return cfg
}

func TestWorkerPool_StopHandsBackBufferedJobs(t *testing.T) {
	var pool *WorkerPool
	proc := blockUntilStopped(&pool)
	pool = NewWorkerPool(proc.Process, singleWorkerConfig())
	handoff := &MockHandoff{}
	pool.WithHandoff(handoff)
	pool.Start()

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-s")
	for _, id := range []string{"a", "b", "c"} {
		if err := pool.Submit(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, "first job running", func() bool { return atomic.LoadInt32(&proc.Count) == 1 })
	stopPool(t, pool)

	proc.mu.Lock()
	seen := append([]string(nil), proc.Processed...)
	proc.mu.Unlock()
	seen = append(seen, handoff.FileIDs...)
	if len(seen) != 3 {
		t.Fatalf("expected every file processed or handed back once, got %v", seen)
	}
	for _, tr := range handoff.TraceIDs {
		if tr != "trace-s" {
			t.Errorf("trace id lost on hand back: %q", tr)
		}
	}
	if len(pool.jobChannel) != 0 {
		t.Errorf("buffer not drained: %d left", len(pool.jobChannel))
	}
}

func TestQueue_StopRequeuesBufferedMessages(t *testing.T) {
	mr, rs := newQueue(t)
	var pool *WorkerPool
	proc := blockUntilStopped(&pool)
	pool = NewWorkerPool(proc.Process, singleWorkerConfig())
	d := NewQueueDispatcher(rs, "test:queue", &MockDispatcher{})
	pool.WithHandoff(d)
	pool.Start()

	files := []string{"f1", "f2", "f3", "f4"}
	for _, id := range files {
		if err := d.Submit(context.Background(), id); err != nil {
			t.Fatal(err)
		}
	}

	consumer := NewQueueConsumer(rs, "test:queue", pool)
	consumer.blockTimeout = 100 * time.Millisecond
	runCtx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- consumer.Run(runCtx) }()

	// one file on the blocked worker, three popped from redis and buffered
	waitFor(t, "queue moved into the pool", func() bool {
		return atomic.LoadInt32(&proc.Count) == 1 && len(pool.jobChannel) == 3
	})
	if items, _ := mr.List("test:queue"); len(items) != 0 {
		t.Fatalf("expected redis list empty before shutdown, got %v", items)
	}
	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("consumer returned %v", err)
	}
	stopPool(t, pool)

	seen := map[string]int{}
	proc.mu.Lock()
	for _, id := range proc.Processed {
		seen[id]++
	}
	proc.mu.Unlock()
	items, _ := mr.List("test:queue")
	for _, item := range items {
		msg, err := decodeMessage(item)
		if err != nil {
			t.Fatalf("requeued message unreadable: %q", item)
		}
		seen[msg.FileID]++
	}
	for _, id := range files {
		if seen[id] != 1 {
			t.Errorf("file %s: processed or requeued %d times, want 1 (seen %v)", id, seen[id], seen)
		}
	}
}

func TestWorkerPool_SubmitDuringStop(t *testing.T) {
	proc := &MockProcessor{}
	cfg := testConfig()
	cfg.BufferLimit = 0
	cfg.MaxWorkers = 1
	pool := NewWorkerPool(proc.Process, cfg)
	pool.Start()

	var accepted int32
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				err := pool.Submit(context.Background(), "f")
				switch {
				case err == nil:
					atomic.AddInt32(&accepted, 1)
				case errors.Is(err, ErrPoolStopped):
					return
				default:
					t.Errorf("unexpected submit error: %v", err)
					return
				}
			}
		}()
	}
	time.Sleep(time.Millisecond)
	stopPool(t, pool)
	wg.Wait()

	// with no buffer every accepted job ran on a worker or detached before Stop returned
	if got, want := atomic.LoadInt32(&proc.Count), atomic.LoadInt32(&accepted); got != want {
		t.Errorf("processed %d of %d accepted submissions", got, want)
	}
	if err := pool.Submit(context.Background(), "late"); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped, got %v", err)
	}
}
