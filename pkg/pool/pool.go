package pool

import (
	"math"
	"sync"
)

// Stats is a point-in-time view of a pool.
type Stats struct {
	Name      string
	Free      int
	Ceiling   int
	InUse     int
	HighWater int
	Allocated uint64
	Acquired  uint64
	Released  uint64
	Discarded uint64
}

// managed is the type-erased view the registry keeps of every pool.
type managed interface {
	name() string
	stats() Stats
	maybeShrink()
	reconfigure(cfg Config, force bool) error
}

// Pool is a bounded free list of reusable T values.
type Pool[T any] struct {
	id      string
	newFn   func() T
	resetFn func(T)

	mu        sync.Mutex
	cfg       Config
	free      []T
	ceiling   int
	inUse     int
	highWater int
	allocated uint64
	acquired  uint64
	released  uint64
	discarded uint64
	started   bool
}

// New creates a pool and registers it process-wide under name.
// The policy is the one configured for name, or DefaultConfig.
// reset may be nil when T needs no clearing.
func New[T any](name string, newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		id:      name,
		newFn:   newFn,
		resetFn: reset,
	}
	p.applyConfig(configFor(name))
	register(p)
	return p
}

// NewWithConfig creates an unregistered pool with an explicit policy.
// It is meant for callers that own their pool's lifetime.
func NewWithConfig[T any](name string, cfg Config, newFn func() T, reset func(T)) (*Pool[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pool[T]{
		id:      name,
		newFn:   newFn,
		resetFn: reset,
	}
	p.applyConfig(cfg)
	return p, nil
}

func (p *Pool[T]) applyConfig(cfg Config) {
	p.cfg = cfg
	p.ceiling = cfg.Initial
	if p.ceiling > cfg.Max {
		p.ceiling = cfg.Max
	}
	if len(p.free) > p.ceiling {
		p.free = truncate(p.free, p.ceiling)
	}
}

// Acquire returns a pooled item or a newly allocated one.
func (p *Pool[T]) Acquire() T {
	p.mu.Lock()
	p.started = true
	p.acquired++
	p.inUse++
	if p.inUse > p.highWater {
		p.highWater = p.inUse
	}
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return item
	}
	p.allocated++
	p.mu.Unlock()
	return p.newFn()
}

// Release resets item and keeps it for reuse if there is room under the
// ceiling. The ceiling grows by GrowthFactor (capped at Max) when the
// high-water mark shows demand above it; otherwise the item is discarded.
func (p *Pool[T]) Release(item T) {
	if p.resetFn != nil {
		p.resetFn(item)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.released++
	if p.inUse > 0 {
		p.inUse--
	}

	if len(p.free) >= p.ceiling && p.highWater > p.ceiling && p.ceiling < p.cfg.Max {
		grown := int(math.Ceil(float64(max(p.ceiling, 1)) * p.cfg.GrowthFactor))
		p.ceiling = min(grown, p.cfg.Max)
	}
	if len(p.free) >= p.ceiling {
		p.discarded++
		return
	}
	p.free = append(p.free, item)
}

// MaybeShrink is an idle-time hook. When the high-water mark uses less than
// ShrinkThreshold of the ceiling, the ceiling contracts toward
// max(highWater*GrowthFactor, MinSize, Initial) and surplus free items are
// dropped. The high-water mark then restarts from the current demand.
func (p *Pool[T]) MaybeShrink() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shrinkLocked()
}

func (p *Pool[T]) shrinkLocked() {
	if p.ceiling == 0 {
		return
	}
	utilization := float64(p.highWater) / float64(p.ceiling)
	if utilization < p.cfg.ShrinkThreshold {
		target := int(math.Ceil(float64(p.highWater) * p.cfg.GrowthFactor))
		target = max(target, p.cfg.MinSize, p.cfg.Initial)
		target = min(target, p.cfg.Max)
		if target < p.ceiling {
			p.ceiling = target
			if len(p.free) > p.ceiling {
				p.discarded += uint64(len(p.free) - p.ceiling)
				p.free = truncate(p.free, p.ceiling)
			}
		}
	}
	p.highWater = p.inUse
}

// Stats returns the pool's counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Name:      p.id,
		Free:      len(p.free),
		Ceiling:   p.ceiling,
		InUse:     p.inUse,
		HighWater: p.highWater,
		Allocated: p.allocated,
		Acquired:  p.acquired,
		Released:  p.released,
		Discarded: p.discarded,
	}
}

// Config returns the active policy.
func (p *Pool[T]) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

func (p *Pool[T]) name() string { return p.id }
func (p *Pool[T]) stats() Stats { return p.Stats() }
func (p *Pool[T]) maybeShrink() { p.MaybeShrink() }

// reconfigure swaps the policy. Without force it refuses once the pool has
// served an Acquire. With force the pool is also emptied and its counters
// cleared.
func (p *Pool[T]) reconfigure(cfg Config, force bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started && !force {
		return ErrConfigLocked
	}
	if force {
		p.free = nil
		p.inUse = 0
		p.highWater = 0
		p.allocated = 0
		p.acquired = 0
		p.released = 0
		p.discarded = 0
		p.started = false
	}
	p.applyConfig(cfg)
	return nil
}

func truncate[T any](s []T, n int) []T {
	var zero T
	for i := n; i < len(s); i++ {
		s[i] = zero
	}
	return s[:n]
}
