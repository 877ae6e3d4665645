package lumen

import (
	"sync"
	"sync/atomic"
)

// MergedCell is a cached computation over other cells.
// It recomputes lazily: a source change only invalidates it, and the next
// read recomputes once no matter how many sources changed in between.
//
// Merged cells subscribe to their sources, so a merged cell created outside
// an owner must be destroyed explicitly. LiveMergedCells reports the ones
// still alive.
type MergedCell[T any] struct {
	base cellBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	valid     atomic.Bool
	computing atomic.Bool
	destroyed atomic.Bool

	sources   []*cellBase
	sourcesMu sync.Mutex
}

// NewMerged creates a merged cell. compute is not run until the first read.
func NewMerged[T any](compute func() T) *MergedCell[T] {
	m := &MergedCell[T]{
		base:    cellBase{id: nextID()},
		compute: compute,
	}
	registerMerged(m.base.id, "")

	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(m.Destroy)
	}
	return m
}

// NewMergedTagged is NewMerged with a debug tag.
func NewMergedTagged[T any](tag string, compute func() T) *MergedCell[T] {
	m := NewMerged(compute)
	m.base.tag = tag
	registerMerged(m.base.id, tag)
	return m
}

// Get returns the value, recomputing if invalid, and subscribes the current
// listener.
func (m *MergedCell[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// Peek returns the value without subscribing. It still recomputes when the
// cached value is stale.
func (m *MergedCell[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
func (m *MergedCell[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.base.markSubscribers()
	}
}

// ID returns the unique identifier for this merged cell.
func (m *MergedCell[T]) ID() uint64 {
	return m.base.id
}

// Destroy unsubscribes from all sources and drops subscribers.
func (m *MergedCell[T]) Destroy() {
	if m.destroyed.Swap(true) {
		return
	}
	m.unsubscribeSources()
	m.base.clearSubscribers()
	m.valid.Store(false)
	unregisterMerged(m.base.id)
}

func (m *MergedCell[T]) addSource(source *cellBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *MergedCell[T]) unsubscribeSources() {
	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()
}

func (m *MergedCell[T]) recompute() {
	// A merged cell reading itself would recurse forever.
	if m.computing.Swap(true) {
		return
	}
	defer m.computing.Store(false)

	m.unsubscribeSources()

	var next T
	if m.destroyed.Load() {
		// Destroyed cells still answer reads but no longer track.
		WithListener(nil, func() { next = m.compute() })
	} else {
		WithListener(m, func() { next = m.compute() })
	}

	m.valueMu.Lock()
	m.value = next
	m.valueMu.Unlock()

	if !m.destroyed.Load() {
		m.valid.Store(true)
	}
}

var _ sourceTracker = (*MergedCell[int])(nil)
