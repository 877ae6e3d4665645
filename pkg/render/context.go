package render

import (
	"fmt"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/hydrate"
	"github.com/vango-dev/lumen/pkg/lumen"
)

// Component builds nodes.
type Component func(c *Context) Nodes

// Context carries the backend, the owner new primitives attach to and, in
// hydrate mode, the cursor over the existing nodes at this level.
type Context struct {
	b      backend.Backend
	owner  *lumen.Owner
	cursor *hydrate.Cursor
}

// NewContext returns a create-mode context.
func NewContext(b backend.Backend, owner *lumen.Owner) *Context {
	return &Context{b: b, owner: owner}
}

// NewHydrateContext returns a hydrate-mode context over cursor.
func NewHydrateContext(b backend.Backend, owner *lumen.Owner, cursor *hydrate.Cursor) *Context {
	return &Context{b: b, owner: owner, cursor: cursor}
}

// Backend returns the backend nodes are built with.
func (c *Context) Backend() backend.Backend {
	return c.b
}

// Owner returns the owner of primitives created through c.
func (c *Context) Owner() *lumen.Owner {
	return c.owner
}

// Hydrating reports whether c claims existing nodes.
func (c *Context) Hydrating() bool {
	return c.cursor != nil
}

// WithOwner returns a copy of c that attaches to owner.
func (c *Context) WithOwner(owner *lumen.Owner) *Context {
	cp := *c
	cp.owner = owner
	return &cp
}

// Detached returns a create-mode copy of c. Control flow uses it to build
// content after the initial pass.
func (c *Context) Detached() *Context {
	cp := *c
	cp.cursor = nil
	return &cp
}

// Run calls fn with c's owner as the current owner.
func (c *Context) Run(fn func()) {
	lumen.WithOwner(c.owner, fn)
}

// Effect creates an effect owned by c's owner.
func (c *Context) Effect(fn func()) *lumen.Effect {
	var e *lumen.Effect
	c.Run(func() {
		e = lumen.CreateEffect(func() lumen.Cleanup {
			fn()
			return nil
		})
	})
	return e
}

// OnCleanup registers fn with c's owner.
func (c *Context) OnCleanup(fn func()) {
	if c.owner != nil {
		c.owner.OnCleanup(fn)
	}
}

// Component runs comp under a new child owner.
func (c *Context) Component(comp Component) Nodes {
	child := c.WithOwner(lumen.NewOwner(c.owner))
	var nodes Nodes
	child.Run(func() { nodes = comp(child) })
	return nodes
}

// El creates or claims an element and applies opts in order. A claimed
// element loses the attributes none of opts set.
func (c *Context) El(tag string, opts ...Option) backend.Node {
	ctx := c
	var n backend.Node
	claimed := false
	if c.cursor != nil {
		n, claimed = c.cursor.Element(tag)
		if !claimed {
			ctx = c.Detached()
		}
	} else {
		n = c.b.Element(tag)
	}

	el := &elem{ctx: ctx, node: n}
	if claimed {
		el.set = make(map[string]bool)
	}
	for _, opt := range opts {
		opt(el)
	}
	if claimed {
		c.cursor.Prune(n, tag, el.set)
	}
	return n
}

// Text creates or claims a static text node.
func (c *Context) Text(s string) backend.Node {
	if c.cursor != nil {
		return c.cursor.Text(s)
	}
	return c.b.Text(s)
}

// Comment creates or claims a comment node.
func (c *Context) Comment(data string) backend.Node {
	if c.cursor != nil {
		return c.cursor.Comment(data)
	}
	return c.b.Comment(data)
}

// OpenRange creates or claims the start anchor of a range.
func (c *Context) OpenRange(name string) *Range {
	return &Range{Start: c.Comment(name)}
}

// CloseRange creates or claims the end anchor and records content. In
// create mode the range is inserted by its parent; in hydrate mode the
// content is already in place.
func (c *Context) CloseRange(r *Range, name string, content Nodes) *Range {
	r.content = content
	r.End = c.Comment("/" + name)
	return r
}

// BindText creates or claims a text node showing the value of r.
func BindText[T any](c *Context, r lumen.Reader[T]) backend.Node {
	n := c.Text(format(lumen.UntrackedGet(r)))
	first := true
	c.Effect(func() {
		v := format(r.Get())
		if first {
			first = false
			return
		}
		c.b.Prop(n, backend.PropTextContent, v)
	})
	return n
}

func format(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
