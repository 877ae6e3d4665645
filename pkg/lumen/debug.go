package lumen

import (
	"sort"
	"sync"
)

// CellInfo describes a live cell in the debug registries.
type CellInfo struct {
	ID     uint64
	Tag    string
	Merged bool
}

var (
	debugMu    sync.Mutex
	liveCells  = map[uint64]string{}
	liveMerged = map[uint64]string{}
)

func registerCell(id uint64, tag string) {
	debugMu.Lock()
	liveCells[id] = tag
	debugMu.Unlock()
}

func unregisterCell(id uint64) {
	debugMu.Lock()
	delete(liveCells, id)
	debugMu.Unlock()
}

func registerMerged(id uint64, tag string) {
	debugMu.Lock()
	liveMerged[id] = tag
	debugMu.Unlock()
}

func unregisterMerged(id uint64) {
	debugMu.Lock()
	delete(liveMerged, id)
	debugMu.Unlock()
}

// LiveCells returns the number of cells not yet destroyed.
func LiveCells() int {
	debugMu.Lock()
	defer debugMu.Unlock()
	return len(liveCells)
}

// LiveMergedCells returns the number of merged cells not yet destroyed.
// Test harnesses compare it before and after a test to find leaked
// subscriptions.
func LiveMergedCells() int {
	debugMu.Lock()
	defer debugMu.Unlock()
	return len(liveMerged)
}

// DebugCells lists every live cell and merged cell ordered by ID.
func DebugCells() []CellInfo {
	debugMu.Lock()
	out := make([]CellInfo, 0, len(liveCells)+len(liveMerged))
	for id, tag := range liveCells {
		out = append(out, CellInfo{ID: id, Tag: tag})
	}
	for id, tag := range liveMerged {
		out = append(out, CellInfo{ID: id, Tag: tag, Merged: true})
	}
	debugMu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResetDebugRegistries clears both registries. Call it between tests.
func ResetDebugRegistries() {
	debugMu.Lock()
	clear(liveCells)
	clear(liveMerged)
	debugMu.Unlock()
}

// TrackedGoroutines returns how many goroutines hold a tracking context.
// Goroutines that exit without ReleaseGoroutine stay counted.
func TrackedGoroutines() int {
	n := 0
	trackingContexts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
