package lumen

import (
	"log/slog"
	"sync/atomic"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/pool"
)

// DefaultMaxFlushIterations is the number of passes a flush makes before
// deferring the remaining effects.
const DefaultMaxFlushIterations = 100

var maxFlushIterations atomic.Int64

func init() {
	maxFlushIterations.Store(DefaultMaxFlushIterations)
}

// effectQueues holds the per-pass effect buffers used by the scheduler.
var effectQueues = pool.New("queue",
	func() *[]*Effect {
		s := make([]*Effect, 0, 16)
		return &s
	},
	func(s *[]*Effect) {
		clear(*s)
		*s = (*s)[:0]
	},
)

// SetMaxFlushIterations sets the safety cap on flush passes.
func SetMaxFlushIterations(n int) error {
	if n < 1 {
		return lerrors.New("L003").WithDetailf("max flush iterations must be >= 1, got %d", n)
	}
	maxFlushIterations.Store(int64(n))
	return nil
}

// MaxFlushIterations returns the current safety cap.
func MaxFlushIterations() int {
	return int(maxFlushIterations.Load())
}

// Batch groups writes so that effects run once, after the outermost batch
// returns. Merged cells are still invalidated immediately.
//
//	Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++
	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flush(ctx)
		}
	}()
	fn()
}

// Untracked runs fn without subscribing to anything it reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedGet reads r without creating a dependency.
func UntrackedGet[T any](r Reader[T]) T {
	return r.Peek()
}

// Flush drains effects left queued by a flush that hit the iteration cap.
// It is a no-op inside a batch or a running flush.
func Flush() {
	flush(getTrackingContext())
}

// PendingEffects returns the number of effects queued on this goroutine.
func PendingEffects() int {
	ctx := getTrackingContext()
	if ctx.queue == nil {
		return 0
	}
	return len(*ctx.queue)
}

func enqueue(e *Effect) {
	ctx := getTrackingContext()
	if ctx.queue == nil {
		ctx.queue = effectQueues.Acquire()
	}
	*ctx.queue = append(*ctx.queue, e)
}

func flushIfIdle() {
	flush(getTrackingContext())
}

// flush runs queued effects pass by pass. Writes made by an effect queue
// work for the next pass, so no effect is ever re-entered. While an effect
// body outside a flush is executing (its first run) the flush waits for it
// to return. After the iteration cap the remaining work stays queued.
func flush(ctx *TrackingContext) {
	if ctx.flushing || ctx.batchDepth > 0 || ctx.runningEffect != nil {
		return
	}
	if ctx.queue == nil || len(*ctx.queue) == 0 {
		return
	}
	ctx.flushing = true
	defer func() { ctx.flushing = false }()

	limit := MaxFlushIterations()
	for pass := 0; ctx.queue != nil && len(*ctx.queue) > 0; pass++ {
		if pass >= limit {
			logger().Warn("lumen: flush iteration cap reached, deferring effects",
				slog.Any("error", lerrors.New("L021")),
				slog.Int("passes", pass),
				slog.Int("deferred", len(*ctx.queue)),
				slog.String("first", effectName(*ctx.queue)),
			)
			return
		}

		current := ctx.queue
		ctx.queue = effectQueues.Acquire()
		for _, e := range *current {
			if e.pending.Load() {
				e.run()
			}
		}
		effectQueues.Release(current)
	}

	if ctx.queue != nil && len(*ctx.queue) == 0 {
		effectQueues.Release(ctx.queue)
		ctx.queue = nil
	}
}

func effectName(q []*Effect) string {
	for _, e := range q {
		if e.name != "" {
			return e.name
		}
	}
	return ""
}
