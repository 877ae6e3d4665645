// Package lumen provides the fine-grained reactive core: cells, merged
// cells, effects and the owner tree that scopes their lifetime.
//
// Reading a Cell while an Effect or MergedCell is computing subscribes that
// computation. Writing a Cell with a value that differs under its equality
// check marks subscribers dirty in registration order and flushes the
// resulting effect queue before Set returns.
//
//	count := lumen.NewCell(0)
//	doubled := lumen.NewMerged(func() int { return count.Get() * 2 })
//
//	lumen.CreateEffect(func() lumen.Cleanup {
//	    fmt.Println("doubled:", doubled.Get())
//	    return nil
//	})
//
//	count.Set(2) // prints "doubled: 4"
//
// # Scheduling
//
// Effects never run re-entrantly. A write made by a running effect queues
// its subscribers; the queue is drained in passes until it is empty or the
// iteration cap (SetMaxFlushIterations) is reached, after which the leftover
// work stays queued until the next write or an explicit Flush.
//
// Batch defers the flush until the outermost batch returns.
//
// # Ownership
//
// Owners form a tree. RunDestructors tears an owner down post-order:
// children first, then the owner's effects, then its destructors. Teardown
// is idempotent, so a subtree reached twice (explicit removal plus ancestor
// removal) is only destroyed once.
//
// # Thread Safety
//
// The runtime is single-threaded cooperative. Tracking state is kept per
// goroutine, so independent goroutines may each drive their own trees, but a
// single tree must be driven from one goroutine at a time.
package lumen
