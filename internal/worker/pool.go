// Package worker provides the optional background pool that runs breach
// lookups off the request path. Submission is strictly non-blocking: when the
// queue is full or the pool is stopping, TrySubmit reports false and the
// dispatcher falls back to running the lookup inline, so the feature works
// with zero extra infrastructure.
//
// Jobs communicate results exclusively by writing through the cache layer;
// nothing is returned to the submitter.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is a unit of background work. The context is the pool's lifetime
// context, not the originating request's: an abandoned poll must not cancel
// the lookup, since the cached result benefits later requests.
type Job func(ctx context.Context)

// Pool runs submitted jobs on a fixed set of goroutines fed by a bounded
// queue. A nil *Pool is valid and behaves as "no pool configured": TrySubmit
// returns false and Stop is a no-op.
type Pool struct {
	jobs     chan Job
	done     chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
	stopOnce sync.Once
	rejected atomic.Uint64
}

// NewPool starts workers goroutines with a queue of the given size. It
// returns nil when workers <= 0, which callers treat as inline-only mode.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		return nil
	}
	if queue <= 0 {
		queue = 1
	}

	p := &Pool{
		jobs: make(chan Job, queue),
		done: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			job(context.Background())
		case <-p.done:
			// Drain whatever was accepted before Stop.
			for {
				select {
				case job := <-p.jobs:
					job(context.Background())
				default:
					return
				}
			}
		}
	}
}

// TrySubmit enqueues job without blocking. It reports false when the pool is
// nil, stopping, or the queue is full; the caller then runs the job inline.
func (p *Pool) TrySubmit(job Job) bool {
	if p == nil || p.stopped.Load() {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.rejected.Add(1)
		return false
	}
}

// Stop rejects further submissions, lets accepted jobs drain, and waits for
// the workers to exit or ctx to expire, whichever comes first.
func (p *Pool) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.done)
	})

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Rejected returns how many submissions were refused because the queue was
// full. Exposed for metrics and tests.
func (p *Pool) Rejected() uint64 {
	if p == nil {
		return 0
	}
	return p.rejected.Load()
}
