package hydrate

import (
	"fmt"
	"strings"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/backend"
)

// ErrCannotWalk is returned when the backend does not implement
// backend.Walker.
var ErrCannotWalk = lerrors.New("L060")

// Cursor walks the existing children of one parent node.
type Cursor struct {
	b      backend.Backend
	w      backend.Walker
	parent backend.Node
	path   string

	existing []backend.Node
	pos      int

	report *Report

	// intrinsic caches, per tag, the attributes a fresh element starts with.
	intrinsic map[string]map[string]bool
}

// NewCursor starts a cursor over the children of root.
func NewCursor(b backend.Backend, root backend.Node, report *Report) (*Cursor, error) {
	w, ok := b.(backend.Walker)
	if !ok {
		return nil, lerrors.New("L060").WithDetailf("%T", b)
	}
	if report == nil {
		report = NewReport(nil)
	}
	return &Cursor{
		b:         b,
		w:         w,
		parent:    root,
		path:      "",
		existing:  w.Children(root),
		report:    report,
		intrinsic: make(map[string]map[string]bool),
	}, nil
}

// Enter returns a cursor over the children of parent, which must be a node
// this cursor claimed.
func (c *Cursor) Enter(parent backend.Node) *Cursor {
	return &Cursor{
		b:         c.b,
		w:         c.w,
		parent:    parent,
		path:      c.path + "/" + c.describe(parent) + fmt.Sprintf("[%d]", c.pos-1),
		existing:  c.w.Children(parent),
		report:    c.report,
		intrinsic: c.intrinsic,
	}
}

// Report returns the report shared by this cursor and its children.
func (c *Cursor) Report() *Report {
	return c.report
}

// Parent returns the node whose children the cursor walks.
func (c *Cursor) Parent() backend.Node {
	return c.parent
}

func (c *Cursor) peek() backend.Node {
	if c.pos < len(c.existing) {
		return c.existing[c.pos]
	}
	return nil
}

// skipWhitespace drops whitespace-only text left by formatted markup.
func (c *Cursor) skipWhitespace() {
	for n := c.peek(); n != nil; n = c.peek() {
		if c.w.Kind(n) != backend.KindText || strings.TrimSpace(c.w.TextContent(n)) != "" {
			return
		}
		c.b.Destroy(n)
		c.pos++
	}
}

func (c *Cursor) where() string {
	if c.path == "" {
		return fmt.Sprintf("/[%d]", c.pos)
	}
	return fmt.Sprintf("%s/[%d]", c.path, c.pos)
}

func (c *Cursor) describe(n backend.Node) string {
	switch c.w.Kind(n) {
	case backend.KindElement:
		return "<" + c.w.TagName(n) + ">"
	case backend.KindText:
		return fmt.Sprintf("text %q", c.w.TextContent(n))
	case backend.KindComment:
		return fmt.Sprintf("comment %q", c.w.TextContent(n))
	default:
		return "fragment"
	}
}

// replace puts fresh where the current existing node is (or at the end)
// and records the mismatch.
func (c *Cursor) replace(fresh backend.Node, expected string) {
	old := c.peek()
	if old == nil {
		c.report.add(Mismatch{Code: "L042", Path: c.where(), Expected: expected, Found: "nothing"})
		c.b.Insert(c.parent, fresh, nil)
	} else {
		c.report.add(Mismatch{Code: "L040", Path: c.where(), Expected: expected, Found: c.describe(old)})
		c.b.Insert(c.parent, fresh, old)
		c.b.Destroy(old)
		c.pos++
	}
	c.report.countCreate()
}

// Element claims the next node if it is an element with tag. Otherwise a
// fresh element takes its place and claimed is false; the caller must then
// build the element's subtree from scratch.
func (c *Cursor) Element(tag string) (node backend.Node, claimed bool) {
	c.skipWhitespace()
	if n := c.peek(); n != nil && c.w.Kind(n) == backend.KindElement && c.w.TagName(n) == tag {
		c.pos++
		c.report.countClaim()
		return n, true
	}
	fresh := c.b.Element(tag)
	c.replace(fresh, "<"+tag+">")
	return fresh, false
}

// Prune removes the attributes of a claimed element that the construction
// did not set, recording each as a mismatch. Attributes a fresh element of
// the same tag starts with are kept. Backends without backend.AttrLister
// are left alone.
func (c *Cursor) Prune(node backend.Node, tag string, set map[string]bool) {
	l, ok := c.b.(backend.AttrLister)
	if !ok {
		return
	}
	intrinsic, ok := c.intrinsic[tag]
	if !ok {
		intrinsic = make(map[string]bool)
		for _, name := range l.AttrNames(c.b.Element(tag)) {
			intrinsic[name] = true
		}
		c.intrinsic[tag] = intrinsic
	}
	for _, name := range l.AttrNames(node) {
		if set[name] || intrinsic[name] {
			continue
		}
		c.report.add(Mismatch{
			Code:     "L045",
			Path:     fmt.Sprintf("%s/<%s>[%d]", c.path, tag, c.pos-1),
			Expected: "<" + tag + ">",
			Found:    fmt.Sprintf("stale attribute %q", name),
		})
		c.b.Attr(node, name, nil)
	}
}

// Comment claims the next node if it is a comment. Differing comment data
// is patched.
func (c *Cursor) Comment(data string) backend.Node {
	c.skipWhitespace()
	if n := c.peek(); n != nil && c.w.Kind(n) == backend.KindComment {
		if got := c.w.TextContent(n); got != data {
			c.report.add(Mismatch{Code: "L041", Path: c.where(), Expected: fmt.Sprintf("comment %q", data), Found: fmt.Sprintf("comment %q", got)})
			c.b.Prop(n, backend.PropTextContent, data)
		}
		c.pos++
		c.report.countClaim()
		return n
	}
	fresh := c.b.Comment(data)
	c.replace(fresh, fmt.Sprintf("comment %q", data))
	return fresh
}

// Text claims the next text node. An existing text that begins with text
// is split, since serialization merges adjacent text nodes. Any other
// difference is patched in place.
func (c *Cursor) Text(text string) backend.Node {
	n := c.peek()
	if n != nil && c.w.Kind(n) == backend.KindText {
		got := c.w.TextContent(n)
		switch {
		case got == text:
		case text != "" && strings.HasPrefix(got, text):
			c.split(n, text, got[len(text):])
		default:
			c.report.add(Mismatch{Code: "L041", Path: c.where(), Expected: fmt.Sprintf("text %q", text), Found: fmt.Sprintf("text %q", got)})
			c.b.Prop(n, backend.PropTextContent, text)
		}
		c.pos++
		c.report.countClaim()
		return n
	}

	fresh := c.b.Text(text)
	if text == "" {
		// Empty text never survives serialization.
		c.b.Insert(c.parent, fresh, n)
		c.report.countCreate()
		return fresh
	}
	c.replace(fresh, fmt.Sprintf("text %q", text))
	return fresh
}

// split shortens n to head and inserts a new text node holding tail right
// after it, so the next Text call can claim it.
func (c *Cursor) split(n backend.Node, head, tail string) {
	c.b.Prop(n, backend.PropTextContent, head)
	rest := c.b.Text(tail)

	var next backend.Node
	if c.pos+1 < len(c.existing) {
		next = c.existing[c.pos+1]
	}
	c.b.Insert(c.parent, rest, next)

	c.existing = append(c.existing, nil)
	copy(c.existing[c.pos+2:], c.existing[c.pos+1:])
	c.existing[c.pos+1] = rest
}

// Finish destroys the existing nodes that were not claimed.
func (c *Cursor) Finish() {
	c.skipWhitespace()
	for n := c.peek(); n != nil; n = c.peek() {
		c.report.add(Mismatch{Code: "L043", Path: c.where(), Expected: "nothing", Found: c.describe(n)})
		c.b.Destroy(n)
		c.pos++
	}
}
