package lumen

import "testing"

func TestDebugCells(t *testing.T) {
	ResetDebugRegistries()
	defer ResetDebugRegistries()

	c := NewCell(0, WithTag[int]("count"))
	m := NewMergedTagged("double", func() int { return c.Get() * 2 })

	cells := DebugCells()
	if len(cells) != 2 {
		t.Fatalf("expected 2 live entries, got %v", cells)
	}
	if cells[0].ID != c.ID() || cells[0].Tag != "count" || cells[0].Merged {
		t.Errorf("unexpected first entry %+v", cells[0])
	}
	if cells[1].ID != m.ID() || cells[1].Tag != "double" || !cells[1].Merged {
		t.Errorf("unexpected second entry %+v", cells[1])
	}

	c.Destroy()
	m.Destroy()
	if LiveCells() != 0 || LiveMergedCells() != 0 {
		t.Errorf("expected empty registries, got %d cells and %d merged", LiveCells(), LiveMergedCells())
	}
}

func TestResetDebugRegistries(t *testing.T) {
	NewCell(1)
	ResetDebugRegistries()
	if LiveCells() != 0 {
		t.Errorf("reset should clear cells, got %d", LiveCells())
	}
}

func TestReleaseGoroutine(t *testing.T) {
	type result struct {
		before, after bool
	}
	ch := make(chan result)
	go func() {
		c := NewCell(1)
		e := CreateEffect(func() Cleanup {
			c.Get()
			return nil
		})
		Batch(func() { c.Set(2) })
		e.Dispose()

		_, before := trackingContexts.Load(getGoroutineID())
		ReleaseGoroutine()
		_, after := trackingContexts.Load(getGoroutineID())
		ch <- result{before, after}
	}()

	r := <-ch
	if !r.before {
		t.Fatal("expected a tracking context after reactive work")
	}
	if r.after {
		t.Error("expected ReleaseGoroutine to drop the tracking context")
	}
}
