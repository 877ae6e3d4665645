package app

import (
	"context"
	"sync"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/lumen"
)

// ErrQueueClosed is returned by Do after Close.
var ErrQueueClosed = lerrors.New("L074")

// Queue runs top-level render pipelines one at a time in submission
// order. All jobs run on the queue's own goroutine, so the reactive
// tracking state of one render never interleaves with another's.
type Queue struct {
	jobs chan job

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type job struct {
	ctx    context.Context
	fn     func(context.Context) error
	result chan error
}

// DefaultQueue is shared by Apps and ssr.RenderToString unless they are
// given their own.
var DefaultQueue = NewQueue()

// NewQueue starts a queue worker.
func NewQueue() *Queue {
	q := &Queue{
		jobs: make(chan job, 64),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	defer lumen.ReleaseGoroutine()
	for j := range q.jobs {
		if err := j.ctx.Err(); err != nil {
			j.result <- err
			continue
		}
		j.result <- j.fn(j.ctx)
	}
}

// Do enqueues fn behind every job submitted before it and waits for it to
// finish. A job whose ctx is done before it starts is skipped. A running
// job is never interrupted; when ctx ends while it runs, Do still waits
// for it so callers never observe a half-applied render.
func (q *Queue) Do(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, fn: fn, result: make(chan error, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	select {
	case q.jobs <- j:
	case <-ctx.Done():
		q.mu.RUnlock()
		return ctx.Err()
	}
	q.mu.RUnlock()

	return <-j.result
}

// Close stops accepting jobs, lets queued ones finish and waits for the
// worker to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
