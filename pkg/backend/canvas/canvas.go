// Package canvas implements a backend whose nodes form a 2D scene graph.
//
// Supported elements are canvas (root), g (translated group), rect, circle
// and text. Paint rasterizes the scene into an image.
package canvas

import (
	"fmt"

	"github.com/vango-dev/lumen/pkg/backend"
)

// Shape is a scene graph node.
type Shape struct {
	Tag   string
	Attrs map[string]string

	// Data holds the content of text and comment nodes.
	Data string

	kind     backend.Kind
	parent   *Shape
	children []*Shape
}

// Children returns a snapshot of the children.
func (s *Shape) Children() []*Shape {
	return append([]*Shape(nil), s.children...)
}

// Parent returns the parent shape or nil.
func (s *Shape) Parent() *Shape {
	return s.parent
}

func (s *Shape) detach() {
	p := s.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == s {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	s.parent = nil
}

func (s *Shape) insertBefore(c, ref *Shape) {
	if c == nil || c == s || c == ref {
		return
	}
	c.detach()
	idx := len(s.children)
	if ref != nil && ref.parent == s {
		for i, x := range s.children {
			if x == ref {
				idx = i
				break
			}
		}
	}
	s.children = append(s.children, nil)
	copy(s.children[idx+1:], s.children[idx:])
	s.children[idx] = c
	c.parent = s
}

// Backend builds scene graphs.
type Backend struct{}

// New creates a canvas backend.
func New() *Backend {
	return &Backend{}
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.Walker     = (*Backend)(nil)
	_ backend.AttrLister = (*Backend)(nil)
)

func asShape(v backend.Node) *Shape {
	s, _ := v.(*Shape)
	return s
}

// Element creates a shape.
func (b *Backend) Element(tag string) backend.Node {
	return &Shape{Tag: tag, kind: backend.KindElement}
}

// Text creates a text node.
func (b *Backend) Text(content string) backend.Node {
	return &Shape{Data: content, kind: backend.KindText}
}

// Comment creates an invisible anchor.
func (b *Backend) Comment(content string) backend.Node {
	return &Shape{Data: content, kind: backend.KindComment}
}

// Fragment creates a detached container.
func (b *Backend) Fragment() backend.Node {
	return &Shape{kind: backend.KindFragment}
}

// Attr sets or removes a shape attribute.
func (b *Backend) Attr(node backend.Node, name string, value any) {
	s := asShape(node)
	if s == nil {
		return
	}
	if value == nil || value == false {
		delete(s.Attrs, name)
		return
	}
	if s.Attrs == nil {
		s.Attrs = make(map[string]string)
	}
	if value == true {
		value = ""
	}
	s.Attrs[name] = fmt.Sprint(value)
}

// AttrNames returns the names of node's attributes.
func (b *Backend) AttrNames(node backend.Node) []string {
	s := asShape(node)
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Attrs))
	for name := range s.Attrs {
		names = append(names, name)
	}
	return names
}

// Prop treats every property but PropTextContent as an attribute, since a
// painted scene has no hidden state.
func (b *Backend) Prop(node backend.Node, name string, value any) {
	s := asShape(node)
	if s == nil {
		return
	}
	if name != backend.PropTextContent {
		b.Attr(node, name, value)
		return
	}
	text := ""
	if value != nil {
		text = fmt.Sprint(value)
	}
	if s.kind == backend.KindText || s.kind == backend.KindComment {
		s.Data = text
		return
	}
	b.ClearChildren(s)
	if text != "" {
		s.insertBefore(&Shape{Data: text, kind: backend.KindText}, nil)
	}
}

// Insert places node under parent before anchor.
func (b *Backend) Insert(parent, node, anchor backend.Node) {
	p, n := asShape(parent), asShape(node)
	if p == nil || n == nil {
		return
	}
	a := asShape(anchor)
	if n.kind == backend.KindFragment {
		for _, c := range n.Children() {
			p.insertBefore(c, a)
		}
		return
	}
	p.insertBefore(n, a)
}

// Destroy detaches node.
func (b *Backend) Destroy(node backend.Node) {
	if s := asShape(node); s != nil {
		s.detach()
	}
}

// ClearChildren removes every child.
func (b *Backend) ClearChildren(node backend.Node) {
	s := asShape(node)
	if s == nil {
		return
	}
	for _, c := range s.children {
		c.parent = nil
	}
	s.children = nil
}

// Parent returns the parent shape or nil.
func (b *Backend) Parent(node backend.Node) backend.Node {
	s := asShape(node)
	if s == nil || s.parent == nil {
		return nil
	}
	return s.parent
}

// IsNode reports whether v is a *Shape.
func (b *Backend) IsNode(v any) bool {
	return asShape(v) != nil
}

// Children returns node's children.
func (b *Backend) Children(node backend.Node) []backend.Node {
	s := asShape(node)
	if s == nil {
		return nil
	}
	out := make([]backend.Node, len(s.children))
	for i, c := range s.children {
		out[i] = c
	}
	return out
}

// Kind returns the node type.
func (b *Backend) Kind(node backend.Node) backend.Kind {
	if s := asShape(node); s != nil {
		return s.kind
	}
	return backend.KindFragment
}

// TagName returns the shape tag.
func (b *Backend) TagName(node backend.Node) string {
	if s := asShape(node); s != nil && s.kind == backend.KindElement {
		return s.Tag
	}
	return ""
}

// TextContent returns the text of node and its descendants.
func (b *Backend) TextContent(node backend.Node) string {
	s := asShape(node)
	if s == nil {
		return ""
	}
	return textOf(s)
}

func textOf(s *Shape) string {
	if s.kind == backend.KindText || s.kind == backend.KindComment {
		return s.Data
	}
	out := ""
	for _, c := range s.children {
		if c.kind != backend.KindComment {
			out += textOf(c)
		}
	}
	return out
}
