package syncer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

const submitQueueSize = 64

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Pool runs resync tasks on a fixed number of background workers. Tasks
// carry no ordering guarantee; bodies must be idempotent.
type Pool struct {
	logger *slog.Logger

	workers int
	tasks   chan task

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a pool with the given worker count
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		logger:  logger,
		workers: workers,
		tasks:   make(chan task, submitQueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.group = &errgroup.Group{}
	for i := 0; i < p.workers; i++ {
		p.group.Go(p.run)
	}
}

func (p *Pool) run() error {
	for t := range p.tasks {
		if err := t.fn(p.ctx); err != nil {
			// Task failures are logged, never fatal. The mirror stays
			// stale until a later webhook or scheduled resync.
			p.logger.Error("background task failed", "task", t.name, "error", err)
		}
	}
	return nil
}

// Submit queues a task for background execution. Returns false if the
// pool is saturated or stopped, in which case the task is dropped.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return false
	}

	select {
	case p.tasks <- task{name: name, fn: fn}:
		return true
	default:
		p.logger.Warn("task queue full, dropping task", "task", name)
		return false
	}
}

// Stop drains queued tasks, waits for in-flight work, then cancels the
// pool context. Safe to call multiple times.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	if p.group != nil {
		p.group.Wait()
	}
	p.cancel()
}
