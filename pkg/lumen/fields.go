package lumen

import (
	"fmt"
	"sort"
	"sync"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

// ErrUnknownField is returned when a field name was not declared to Track.
var ErrUnknownField = lerrors.New("L020")

// Fields maps the declared fields of one instance to backing cells.
// A field's cell is created the first time the field is read or written,
// so Get subscribes and Set notifies like a Cell.
type Fields struct {
	mu       sync.Mutex
	typeName string
	initial  map[string]any
	cells    map[string]*Cell[any]
	owner    *Owner
}

// Track returns the field table for instance. The table lives in the current
// owner, so calling Track again for the same instance under the same owner
// returns the same table and the backing cells are destroyed with the owner.
// Without an owner every call returns a new table.
//
//	todo := &Todo{}
//	f := lumen.Track(todo, map[string]any{"title": "", "done": false})
//	f.Set("done", true)
func Track(instance any, declared map[string]any) *Fields {
	owner := CurrentOwner()
	if owner != nil {
		owner.mu.Lock()
		if f, ok := owner.fields[instance]; ok {
			owner.mu.Unlock()
			return f
		}
		owner.mu.Unlock()
	}

	f := &Fields{
		typeName: fmt.Sprintf("%T", instance),
		initial:  make(map[string]any, len(declared)),
		cells:    make(map[string]*Cell[any], len(declared)),
		owner:    owner,
	}
	for name, v := range declared {
		f.initial[name] = v
	}

	if owner != nil && !owner.destroyed.Load() {
		owner.mu.Lock()
		if owner.fields == nil {
			owner.fields = make(map[any]*Fields)
		}
		owner.fields[instance] = f
		owner.mu.Unlock()
	}
	return f
}

// Cell returns the backing cell for name, creating it on first use.
func (f *Fields) Cell(name string) (*Cell[any], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.cells[name]; ok {
		return c, nil
	}
	initial, ok := f.initial[name]
	if !ok {
		return nil, lerrors.New("L020").WithDetailf("%s has no field %q", f.typeName, name)
	}

	var c *Cell[any]
	create := func() {
		c = NewCell(initial, WithTag[any](f.typeName+"."+name))
	}
	if f.owner != nil {
		WithOwner(f.owner, create)
	} else {
		create()
	}
	f.cells[name] = c
	return c, nil
}

// Get reads a field and subscribes the current listener.
// It panics if name was not declared.
func (f *Fields) Get(name string) any {
	c, err := f.Cell(name)
	if err != nil {
		panic(err)
	}
	return c.Get()
}

// Set writes a field, notifying subscribers when the value changes.
// It panics if name was not declared.
func (f *Fields) Set(name string, value any) {
	c, err := f.Cell(name)
	if err != nil {
		panic(err)
	}
	c.Set(value)
}

// Has reports whether name was declared.
func (f *Fields) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.initial[name]
	return ok
}

// Names returns the declared field names, sorted.
func (f *Fields) Names() []string {
	f.mu.Lock()
	names := make([]string, 0, len(f.initial))
	for name := range f.initial {
		names = append(names, name)
	}
	f.mu.Unlock()
	sort.Strings(names)
	return names
}
