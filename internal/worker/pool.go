package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pool runs background tasks on a fixed set of goroutines. Each task gets a
// fresh context bounded by the pool timeout, detached from whatever request
// queued it.
type Pool struct {
	tasks   chan task
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type task struct {
	name string
	run  func(context.Context) error
}

// NewPool starts workers goroutines reading from a queue of queueSize tasks.
func NewPool(workers, queueSize int, timeout time.Duration, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		tasks:   make(chan task, queueSize),
		timeout: timeout,
		logger:  logger,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Submit queues run without blocking. It reports false when the queue is
// full or the pool is stopping.
func (p *Pool) Submit(name string, run func(context.Context) error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("background pool stopped; dropping task", zap.String("task", name))
		return false
	}
	select {
	case p.tasks <- task{name: name, run: run}:
		return true
	default:
		p.logger.Warn("background queue full; dropping task", zap.String("task", name))
		return false
	}
}

// Stop refuses new tasks and waits for queued ones until ctx is done.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := t.run(ctx); err != nil {
		p.logger.Warn("background task failed", zap.String("task", t.name), zap.Error(err))
		return
	}
	p.logger.Debug("background task done", zap.String("task", t.name), zap.Duration("took", time.Since(start)))
}
