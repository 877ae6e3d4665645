package render

import (
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/lumen"
)

type elem struct {
	ctx  *Context
	node backend.Node

	// set collects the attribute and property names applied to a claimed
	// element. It is nil in create mode.
	set map[string]bool
}

func (e *elem) mark(name string) {
	if e.set != nil {
		e.set[name] = true
	}
}

// Option configures an element created by Context.El.
type Option func(e *elem)

// Attr sets a static attribute.
func Attr(name string, value any) Option {
	return func(e *elem) {
		e.mark(name)
		e.ctx.b.Attr(e.node, name, value)
	}
}

// Prop sets a static property.
func Prop(name string, value any) Option {
	return func(e *elem) {
		e.mark(name)
		e.ctx.b.Prop(e.node, name, value)
	}
}

// BindAttr keeps an attribute in sync with r.
func BindAttr[T any](name string, r lumen.Reader[T]) Option {
	return func(e *elem) {
		e.mark(name)
		b, n := e.ctx.b, e.node
		e.ctx.Effect(func() {
			b.Attr(n, name, any(r.Get()))
		})
	}
}

// BindProp keeps a property in sync with r.
func BindProp[T any](name string, r lumen.Reader[T]) Option {
	return func(e *elem) {
		e.mark(name)
		b, n := e.ctx.b, e.node
		e.ctx.Effect(func() {
			b.Prop(n, name, any(r.Get()))
		})
	}
}

// Ref stores the element's node in *dst.
func Ref(dst *backend.Node) Option {
	return func(e *elem) {
		*dst = e.node
	}
}

// Children builds the element's children with fn.
func Children(fn Component) Option {
	return func(e *elem) {
		c := e.ctx
		if c.cursor == nil {
			child := &Context{b: c.b, owner: c.owner}
			InsertAll(c.b, e.node, fn(child), nil)
			return
		}
		cur := c.cursor.Enter(e.node)
		fn(&Context{b: c.b, owner: c.owner, cursor: cur})
		cur.Finish()
	}
}

// TextChild is Children with a single static text node.
func TextChild(s string) Option {
	return Children(func(c *Context) Nodes {
		return Nodes{c.Text(s)}
	})
}
