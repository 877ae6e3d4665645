package lumen

// Listener is anything that can be notified when a dependency changes.
// Effects and merged cells implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// Merged cells invalidate and propagate; effects queue a re-run.
	MarkDirty()

	// ID returns a unique identifier used for subscription deduplication.
	ID() uint64
}

// Reader is a readable reactive value.
type Reader[T any] interface {
	// Get returns the value and subscribes the current listener.
	Get() T

	// Peek returns the value without subscribing.
	Peek() T
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by listeners that remember what they read.
type sourceTracker interface {
	Listener
	addSource(source *cellBase)
}

// Static returns a Reader that always yields v and tracks nothing.
func Static[T any](v T) Reader[T] {
	return staticReader[T]{v: v}
}

type staticReader[T any] struct{ v T }

func (s staticReader[T]) Get() T  { return s.v }
func (s staticReader[T]) Peek() T { return s.v }
