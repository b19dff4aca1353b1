package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
)

var (
	// ErrPoolClosed is returned when work is submitted after Release
	ErrPoolClosed = errors.New("job pool closed")

	// ErrQueueFull is returned by TryEnqueue when the backlog has no room
	ErrQueueFull = errors.New("job queue full")
)

// DefaultBacklog is the number of jobs that may wait for a worker
const DefaultBacklog = 256

// Stats are aggregate job counters
type Stats struct {
	Submitted int64 `json:"submitted"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Running   int   `json:"running"`
	Queued    int   `json:"queued"`
}

type task struct {
	name    string
	fn      JobFunc
	timeout time.Duration
}

// Option configures a Pool
type Option func(*Pool)

// WithBacklog sets how many accepted jobs may wait for a free worker
func WithBacklog(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.backlog = n
		}
	}
}

// Pool runs jobs on a bounded set of goroutines. Accepted jobs wait in a
// bounded backlog until a worker is free; a dispatcher hands them to the
// workers in order.
type Pool struct {
	pool    *ants.Pool
	backlog int
	queue   chan task
	slots   chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{}
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool

	submitted atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a pool of size workers. Cancelling ctx cancels running jobs.
func NewPool(ctx context.Context, size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("creating job pool: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		pool:    pool,
		backlog: DefaultBacklog,
		slots:   make(chan struct{}, size),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "jobs"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queue = make(chan task, p.backlog)

	go p.dispatch()
	return p, nil
}

// Enqueue schedules fn, waiting for backlog room while the pool is
// saturated. timeout <= 0 means the job runs until it returns or the pool is
// released.
func (p *Pool) Enqueue(name string, fn JobFunc, timeout time.Duration) error {
	return p.enqueue(task{name: name, fn: fn, timeout: timeout}, true)
}

// TryEnqueue schedules fn without waiting. It fails with ErrQueueFull when
// the backlog is full.
func (p *Pool) TryEnqueue(name string, fn JobFunc, timeout time.Duration) error {
	return p.enqueue(task{name: name, fn: fn, timeout: timeout}, false)
}

func (p *Pool) enqueue(t task, wait bool) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.ctx.Err() != nil {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	if wait {
		select {
		case p.queue <- t:
		case <-p.ctx.Done():
			p.wg.Done()
			return ErrPoolClosed
		}
	} else {
		select {
		case p.queue <- t:
		default:
			p.wg.Done()
			return fmt.Errorf("%w: job %s", ErrQueueFull, t.name)
		}
	}

	p.submitted.Add(1)
	return nil
}

// dispatch moves queued jobs to the workers, one free slot at a time
func (p *Pool) dispatch() {
	defer close(p.done)
	for {
		var t task
		select {
		case <-p.ctx.Done():
			return
		case t = <-p.queue:
		}

		select {
		case <-p.ctx.Done():
			p.drop(t)
			return
		case p.slots <- struct{}{}:
		}

		err := p.pool.Submit(func() {
			defer func() {
				<-p.slots
				p.wg.Done()
			}()
			p.run(t)
		})
		if err != nil {
			<-p.slots
			p.drop(t)
		}
	}
}

func (p *Pool) drop(t task) {
	p.failed.Add(1)
	p.logger.Warn("job dropped", "job", t.name)
	p.wg.Done()
}

func (p *Pool) run(t task) {
	ctx := p.ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return t.fn(ctx)
	}()

	if err != nil {
		p.failed.Add(1)
		p.logger.Error("job failed", "job", t.name, "elapsed", time.Since(start), "error", err)
		return
	}
	p.succeeded.Add(1)
	p.logger.Debug("job finished", "job", t.name, "elapsed", time.Since(start))
}

// Wait blocks until every accepted job returned or was dropped
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats returns the job counters
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Running:   p.pool.Running(),
		Queued:    len(p.queue),
	}
}

// Release cancels running jobs, drops queued ones and stops the workers.
// Jobs observe the cancellation through their context.
func (p *Pool) Release() {
	p.cancel()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	<-p.done
	for {
		select {
		case t := <-p.queue:
			p.drop(t)
		default:
			p.pool.Release()
			return
		}
	}
}
