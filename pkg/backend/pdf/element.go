package pdf

import (
	"github.com/vango-dev/lumen/pkg/backend"
)

// Element is a node of the virtual PDF document. It is not a DOM node but
// exposes the same tree shape.
type Element struct {
	Tag   string
	Attrs map[string]string
	Props map[string]any

	// Data holds the content of text and comment nodes.
	Data string

	kind     backend.Kind
	parent   *Element
	children []*Element
}

// ParentElement returns the parent or nil.
func (e *Element) ParentElement() *Element {
	return e.parent
}

// Children returns a snapshot of the children.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// AppendChild moves c to the end of e's children.
func (e *Element) AppendChild(c *Element) {
	e.InsertBefore(c, nil)
}

// InsertBefore moves c before ref. A nil or foreign ref appends.
func (e *Element) InsertBefore(c, ref *Element) {
	if c == nil || c == e || c == ref {
		return
	}
	c.Remove()

	idx := len(e.children)
	if ref != nil && ref.parent == e {
		idx = e.indexOf(ref)
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = c
	c.parent = e
}

// RemoveChild detaches c when it is a child of e.
func (e *Element) RemoveChild(c *Element) {
	if c == nil || c.parent != e {
		return
	}
	if i := e.indexOf(c); i >= 0 {
		e.children = append(e.children[:i], e.children[i+1:]...)
	}
	c.parent = nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

func (e *Element) indexOf(c *Element) int {
	for i, x := range e.children {
		if x == c {
			return i
		}
	}
	return -1
}
