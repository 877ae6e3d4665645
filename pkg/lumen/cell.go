package lumen

import (
	"sync"
)

// cellBase provides type-erased subscriber management.
// It is embedded in Cell[T] and MergedCell[T].
type cellBase struct {
	id  uint64
	tag string

	// subs are kept in subscription order; notification follows it.
	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *cellBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener, preserving the order of the others.
func (s *cellBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			copy(s.subs[i:], s.subs[i+1:])
			s.subs[len(s.subs)-1] = nil
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// markSubscribers marks every subscriber dirty, oldest first.
// The slice is copied so listeners may unsubscribe while being notified.
func (s *cellBase) markSubscribers() {
	s.subMu.RLock()
	if len(s.subs) == 0 {
		s.subMu.RUnlock()
		return
	}
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// track subscribes the current listener, if any, to s.
func (s *cellBase) track() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}
	s.subscribe(listener)
	if st, ok := listener.(sourceTracker); ok {
		st.addSource(s)
	}
}

func (s *cellBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

func (s *cellBase) clearSubscribers() {
	s.subMu.Lock()
	s.subs = nil
	s.subMu.Unlock()
}

// Cell is a mutable reactive container.
// Reading it inside an effect or merged cell subscribes that computation;
// setting a different value re-runs the subscribers.
type Cell[T any] struct {
	base cellBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write changes the value.
	// nil means the default equality.
	equal func(T, T) bool

	destroyed bool
}

// CellOption configures a Cell at construction.
type CellOption[T any] func(*Cell[T])

// WithTag sets the debug tag shown in the live-cell registry.
func WithTag[T any](tag string) CellOption[T] {
	return func(c *Cell[T]) { c.base.tag = tag }
}

// WithEquality sets the equality predicate used by Set.
func WithEquality[T any](fn func(T, T) bool) CellOption[T] {
	return func(c *Cell[T]) { c.equal = fn }
}

// NewCell creates a cell holding initial. When created under an owner the
// cell is destroyed with it.
func NewCell[T any](initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		base:  cellBase{id: nextID()},
		value: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	registerCell(c.base.id, c.base.tag)

	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(c.Destroy)
	}
	return c
}

// Get returns the current value and subscribes the current listener.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	c.base.track()
	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores value. If it differs from the current value under the cell's
// equality predicate, subscribers are marked dirty and pending effects are
// flushed (unless a batch or flush is already in progress).
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.base.markSubscribers()
		flushIfIdle()
	}
}

// Update reads and replaces the value in one step.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	old := c.value
	next := fn(old)
	changed := !c.equals(old, next)
	if changed {
		c.value = next
	}
	c.mu.Unlock()

	if changed {
		c.base.markSubscribers()
		flushIfIdle()
	}
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.base.id
}

// Tag returns the debug tag.
func (c *Cell[T]) Tag() string {
	return c.base.tag
}

// Subscribers returns the number of listeners currently subscribed.
func (c *Cell[T]) Subscribers() int {
	return c.base.subscriberCount()
}

// Destroy drops all subscribers and removes the cell from the debug
// registry. The cell keeps its value and may still be read.
func (c *Cell[T]) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()

	c.base.clearSubscribers()
	unregisterCell(c.base.id)
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}
