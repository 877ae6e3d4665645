package lumen

import (
	"sync"
	"testing"
)

type testListener struct {
	id         uint64
	mu         sync.Mutex
	dirtyCount int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestCellBasic(t *testing.T) {
	count := NewCell(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestCellPeekDoesNotSubscribe(t *testing.T) {
	count := NewCell(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe, got %d notifications", listener.getDirtyCount())
	}
}

func TestCellWriteSameValueIsIdempotent(t *testing.T) {
	values := []any{0, "x", 3.5, true, []int{1, 2}, map[string]int{"a": 1}, nil}

	for _, v := range values {
		c := NewCell[any](v)
		listener := newTestListener()
		WithListener(listener, func() { _ = c.Get() })

		c.Set(c.Get())
		if got := c.Peek(); !defaultEquals(got, v) {
			t.Errorf("value changed after self-write: %v -> %v", v, got)
		}
		if listener.getDirtyCount() != 0 {
			t.Errorf("self-write of %v notified %d times", v, listener.getDirtyCount())
		}
		c.Destroy()
	}
}

func TestCellMixedDynamicTypes(t *testing.T) {
	c := NewCell[any](1)
	listener := newTestListener()
	WithListener(listener, func() { _ = c.Get() })

	c.Set("1")
	if listener.getDirtyCount() != 1 {
		t.Errorf("changing dynamic type should notify once, got %d", listener.getDirtyCount())
	}
}

func TestCellCustomEquality(t *testing.T) {
	type point struct{ X, Y int }
	c := NewCell(point{1, 2}, WithEquality(func(a, b point) bool { return a.X == b.X }))
	listener := newTestListener()
	WithListener(listener, func() { _ = c.Get() })

	c.Set(point{1, 99})
	if listener.getDirtyCount() != 0 {
		t.Errorf("equal under predicate should not notify, got %d", listener.getDirtyCount())
	}
	c.Set(point{2, 0})
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestCellSubscriptionDedup(t *testing.T) {
	c := NewCell(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = c.Get()
		_ = c.Get()
		_ = c.Get()
	})

	if c.Subscribers() != 1 {
		t.Errorf("expected 1 subscriber, got %d", c.Subscribers())
	}
}

func TestCellNotifiesInRegistrationOrder(t *testing.T) {
	c := NewCell(0)
	var order []int

	for i := 0; i < 4; i++ {
		i := i
		CreateEffect(func() Cleanup {
			if c.Get() > 0 {
				order = append(order, i)
			}
			return nil
		})
	}

	c.Set(1)
	for i, got := range order {
		if got != i {
			t.Fatalf("expected registration order [0 1 2 3], got %v", order)
		}
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 runs, got %v", order)
	}
}

func TestCellDestroy(t *testing.T) {
	c := NewCell(0, WithTag[int]("counter"))
	listener := newTestListener()
	WithListener(listener, func() { _ = c.Get() })

	if c.Tag() != "counter" {
		t.Errorf("expected tag counter, got %q", c.Tag())
	}

	c.Destroy()
	c.Destroy()
	c.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("destroyed cell should not notify, got %d", listener.getDirtyCount())
	}
	if c.Peek() != 1 {
		t.Errorf("destroyed cell should keep accepting values, got %d", c.Peek())
	}
}

func TestStaticReader(t *testing.T) {
	r := Static("fixed")
	listener := newTestListener()
	WithListener(listener, func() {
		if r.Get() != "fixed" {
			t.Errorf("unexpected value %q", r.Get())
		}
	})
	if r.Peek() != "fixed" {
		t.Errorf("unexpected peek %q", r.Peek())
	}
}
