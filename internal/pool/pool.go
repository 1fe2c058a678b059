package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Submit once Shutdown has been called.
var ErrClosed = errors.New("pool: closed")

// Job is one unit of deferred work.
type Job func()

// Pool runs submitted jobs on a fixed number of worker goroutines.
//
// The queue between Submit and the workers is unbounded: Submit never waits
// for a free worker, so under sustained load the backlog grows without limit.
type Pool struct {
	size    int
	log     zerolog.Logger
	submit  chan Job
	jobs    chan Job
	pending atomic.Int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	done   chan struct{}
}

// New starts size workers. A size below one is treated as one.
func New(size int, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		size:   size,
		log:    logger.With().Str("component", "pool").Logger(),
		submit: make(chan Job),
		jobs:   make(chan Job),
		done:   make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	go p.dispatch()
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	p.log.Info().Int("workers", size).Msg("worker pool started")
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of submitted jobs no worker has claimed yet.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Submit queues job and returns without waiting for it to run. There is no
// way to observe the job's outcome.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.pending.Add(1)
	p.submit <- job
	return nil
}

// Shutdown stops accepting jobs, lets the queued ones finish and waits for
// every worker to exit or for ctx to end. It is safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.submit)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		p.log.Info().Msg("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.log.Warn().Int("pending", p.Pending()).Msg("worker pool shutdown interrupted")
		return ctx.Err()
	}
}

// dispatch moves jobs from submit into an in-memory backlog and hands them
// to whichever worker receives first. It closes jobs once submit is closed
// and the backlog is empty.
func (p *Pool) dispatch() {
	defer close(p.jobs)

	var backlog []Job
	in := p.submit
	for in != nil || len(backlog) > 0 {
		var out chan Job
		var next Job
		if len(backlog) > 0 {
			out = p.jobs
			next = backlog[0]
		}

		select {
		case job, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			backlog = append(backlog, job)
		case out <- next:
			backlog[0] = nil
			backlog = backlog[1:]
		}
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.pending.Add(-1)
		p.run(id, job)
	}
}

// run executes one job. A panicking job is logged and the worker carries on.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", id).Interface("panic", r).Msg("job panicked")
		}
	}()
	job()
}
