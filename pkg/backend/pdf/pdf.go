// Package pdf implements a backend whose nodes form a virtual PDF document.
//
// Components render page, heading and paragraph elements into an Element
// tree; Serialize lays the text out and writes a PDF 1.4 file with one page
// per page element.
package pdf

import (
	"fmt"
	"io"

	"github.com/vango-dev/lumen/pkg/backend"
)

// Backend builds Element trees.
type Backend struct{}

// New creates a PDF backend.
func New() *Backend {
	return &Backend{}
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.Walker     = (*Backend)(nil)
	_ backend.Serializer = (*Backend)(nil)
	_ backend.AttrLister = (*Backend)(nil)
)

func asElement(v backend.Node) *Element {
	e, _ := v.(*Element)
	return e
}

// Element creates an element.
func (b *Backend) Element(tag string) backend.Node {
	return &Element{Tag: tag, kind: backend.KindElement}
}

// Text creates a text node.
func (b *Backend) Text(content string) backend.Node {
	return &Element{Data: content, kind: backend.KindText}
}

// Comment creates a comment node. Comments are not painted.
func (b *Backend) Comment(content string) backend.Node {
	return &Element{Data: content, kind: backend.KindComment}
}

// Fragment creates a detached container.
func (b *Backend) Fragment() backend.Node {
	return &Element{kind: backend.KindFragment}
}

// Attr sets or removes an attribute.
func (b *Backend) Attr(node backend.Node, name string, value any) {
	e := asElement(node)
	if e == nil {
		return
	}
	switch v := value.(type) {
	case nil:
		delete(e.Attrs, name)
		return
	case bool:
		if !v {
			delete(e.Attrs, name)
			return
		}
		value = ""
	}
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = fmt.Sprint(value)
}

// AttrNames returns the names of node's attributes.
func (b *Backend) AttrNames(node backend.Node) []string {
	e := asElement(node)
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Attrs))
	for name := range e.Attrs {
		names = append(names, name)
	}
	return names
}

// Prop sets a property.
func (b *Backend) Prop(node backend.Node, name string, value any) {
	e := asElement(node)
	if e == nil {
		return
	}
	if name == backend.PropTextContent {
		text := ""
		if value != nil {
			text = fmt.Sprint(value)
		}
		if e.kind == backend.KindText || e.kind == backend.KindComment {
			e.Data = text
			return
		}
		b.ClearChildren(e)
		if text != "" {
			e.AppendChild(&Element{Data: text, kind: backend.KindText})
		}
		return
	}
	if e.Props == nil {
		e.Props = make(map[string]any)
	}
	e.Props[name] = value
}

// Insert places node under parent before anchor.
func (b *Backend) Insert(parent, node, anchor backend.Node) {
	p, n := asElement(parent), asElement(node)
	if p == nil || n == nil {
		return
	}
	a := asElement(anchor)
	if n.kind == backend.KindFragment {
		for _, c := range n.Children() {
			p.InsertBefore(c, a)
		}
		return
	}
	p.InsertBefore(n, a)
}

// Destroy detaches node.
func (b *Backend) Destroy(node backend.Node) {
	if e := asElement(node); e != nil {
		e.Remove()
	}
}

// ClearChildren removes every child.
func (b *Backend) ClearChildren(node backend.Node) {
	e := asElement(node)
	if e == nil {
		return
	}
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Parent returns the parent element or nil.
func (b *Backend) Parent(node backend.Node) backend.Node {
	e := asElement(node)
	if e == nil || e.parent == nil {
		return nil
	}
	return e.parent
}

// IsNode reports whether v is an *Element.
func (b *Backend) IsNode(v any) bool {
	return asElement(v) != nil
}

// Children returns node's children.
func (b *Backend) Children(node backend.Node) []backend.Node {
	e := asElement(node)
	if e == nil {
		return nil
	}
	out := make([]backend.Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Kind returns the node type.
func (b *Backend) Kind(node backend.Node) backend.Kind {
	if e := asElement(node); e != nil {
		return e.kind
	}
	return backend.KindFragment
}

// TagName returns the element tag.
func (b *Backend) TagName(node backend.Node) string {
	if e := asElement(node); e != nil && e.kind == backend.KindElement {
		return e.Tag
	}
	return ""
}

// TextContent returns the text of node and its descendants.
func (b *Backend) TextContent(node backend.Node) string {
	e := asElement(node)
	if e == nil {
		return ""
	}
	if e.kind == backend.KindText || e.kind == backend.KindComment {
		return e.Data
	}
	s := ""
	for _, c := range e.children {
		if c.kind != backend.KindComment {
			s += b.TextContent(c)
		}
	}
	return s
}

// Serialize writes node as a PDF file.
func (b *Backend) Serialize(w io.Writer, node backend.Node) error {
	e := asElement(node)
	if e == nil {
		return fmt.Errorf("pdf: not a document node: %T", node)
	}
	return Write(w, e)
}
