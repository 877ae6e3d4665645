package lumen

import (
	"sync"
	"sync/atomic"
)

// Effect is a unit of reactive work. It runs once on creation and again
// whenever a cell it read during its last run changes.
//
// An effect owns an ordered list of cleanup callbacks: the Cleanup returned
// by its last run plus any registered through OnCleanup during that run. The
// list is drained before the next run and on dispose.
type Effect struct {
	id uint64

	fn func() Cleanup

	// cleanups registered during the last run, in registration order.
	cleanups []Cleanup

	// disposers run once, when the effect is disposed.
	disposers []func()

	sources   []*cellBase
	sourcesMu sync.Mutex

	owner *Owner

	pending  atomic.Bool
	disposed atomic.Bool
	running  bool

	runs atomic.Int64
	name string
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// EffectName sets a name used in scheduler diagnostics.
func EffectName(name string) EffectOption {
	return func(e *Effect) { e.name = name }
}

// CreateEffect creates an effect under the current owner and runs it
// immediately. The effect is disposed when its owner is destroyed.
//
// An effect created in the body of a running effect of the same owner is a
// child of that run: it is disposed before the outer effect runs again or
// when the outer effect is disposed.
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	ctx := getTrackingContext()
	owner := ctx.currentOwner

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	for _, opt := range opts {
		opt(e)
	}

	switch outer := ctx.runningEffect; {
	case outer != nil && outer.running && outer.owner == owner:
		outer.cleanups = append(outer.cleanups, e.Dispose)
	case owner != nil:
		owner.registerEffect(e)
	}

	e.run()
	flushIfIdle()
	return e
}

// MarkDirty queues the effect for re-run. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		enqueue(e)
	}
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return int(e.runs.Load())
}

// Disposed reports whether the effect has been disposed.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

// OnDispose registers fn to run once when the effect is disposed.
func (e *Effect) OnDispose(fn func()) {
	if e.disposed.Load() {
		fn()
		return
	}
	e.disposers = append(e.disposers, fn)
}

// Dispose stops the effect and runs its cleanups and disposers.
func (e *Effect) Dispose() {
	_ = e.dispose()
}

// run executes the effect body inside its own tracking scope.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)

	e.runCleanups()
	e.unsubscribeSources()

	ctx := getTrackingContext()
	oldListener := ctx.currentListener
	oldOwner := ctx.currentOwner
	oldEffect := ctx.runningEffect
	ctx.currentListener = e
	ctx.runningEffect = e
	if e.owner != nil {
		ctx.currentOwner = e.owner
	}
	e.running = true
	defer func() {
		e.running = false
		ctx.currentListener = oldListener
		ctx.currentOwner = oldOwner
		ctx.runningEffect = oldEffect
	}()

	e.runs.Add(1)
	if c := e.fn(); c != nil {
		e.cleanups = append(e.cleanups, c)
	}
}

func (e *Effect) runCleanups() {
	cleanups := e.cleanups
	e.cleanups = nil
	for _, c := range cleanups {
		c()
	}
}

func (e *Effect) addSource(source *cellBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) unsubscribeSources() {
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()
}

// dispose tears the effect down. Panics raised by cleanups are returned as
// errors so the surrounding owner teardown can continue.
func (e *Effect) dispose() (err error) {
	if e.disposed.Swap(true) {
		return nil
	}
	e.pending.Store(false)
	e.unsubscribeSources()

	var errs []error
	for _, c := range e.cleanups {
		errs = append(errs, safeCall(func() error { c(); return nil }))
	}
	e.cleanups = nil
	for _, d := range e.disposers {
		errs = append(errs, safeCall(func() error { d(); return nil }))
	}
	e.disposers = nil
	return joinErrors(errs)
}

var _ sourceTracker = (*Effect)(nil)

// OnCleanup registers fn with the innermost scope: the running effect (run
// before its next run and on dispose) or the current owner. An owner
// entered with WithOwner inside the effect body is the innermost scope. It
// is a no-op when neither exists.
func OnCleanup(fn func()) {
	ctx := getTrackingContext()
	if e := ctx.runningEffect; e != nil && e.running && ctx.currentOwner == e.owner {
		e.cleanups = append(e.cleanups, fn)
		return
	}
	if ctx.currentOwner != nil {
		ctx.currentOwner.OnCleanup(fn)
	}
}

// OnUpdate runs callback whenever the cells read by deps change, skipping
// the initial run.
func OnUpdate(deps func(), callback func()) *Effect {
	first := true
	return CreateEffect(func() Cleanup {
		deps()
		if first {
			first = false
			return nil
		}
		Untracked(callback)
		return nil
	})
}
