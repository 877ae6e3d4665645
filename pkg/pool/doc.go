// Package pool provides bounded free-list pools for the per-node
// bookkeeping buffers the runtime churns through on every render.
//
// Each pool is parameterized by a Config:
//
//	initial         starting capacity ceiling of the free list
//	max             hard cap on pooled (resident) items
//	growthFactor    ceiling multiplier applied when demand exceeds it
//	shrinkThreshold utilization below which MaybeShrink contracts
//	minSize         floor for the ceiling after a shrink
//
// Acquire pops a free item or allocates a new one. Release resets the item
// and keeps it only while the free list is under the ceiling; the ceiling
// grows toward max when the high-water mark shows demand above it. Items
// released past the ceiling are dropped for the garbage collector.
//
// Pools are process-wide. Configure must run before the first Acquire on a
// pool; Reset restores defaults for test isolation.
//
// Pools are not designed for cross-goroutine hand-off of the same item, but
// their bookkeeping is mutex protected so independent render goroutines may
// share them.
package pool
