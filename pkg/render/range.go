package render

import "github.com/vango-dev/lumen/pkg/backend"

// Nodes is the result of building a component. Entries are backend nodes
// or *Range values.
type Nodes = []backend.Node

// Range is a live region between two comment anchors.
type Range struct {
	Start backend.Node
	End   backend.Node

	content Nodes
}

// Content returns the range's current content, unflattened.
func (r *Range) Content() Nodes {
	return r.content
}

// SetContent records new content without touching the backend. Callers
// that build content inside an attached range use Replace.
func (r *Range) SetContent(nodes Nodes) {
	r.content = nodes
}

// Attached reports whether the range's end anchor has a parent.
func (r *Range) Attached(b backend.Backend) bool {
	return b.Parent(r.End) != nil
}

// Clear destroys the current content.
func (r *Range) Clear(b backend.Backend) {
	DestroyAll(b, r.content)
	r.content = nil
}

// Replace destroys the current content and inserts nodes before the end
// anchor.
func (r *Range) Replace(b backend.Backend, nodes Nodes) {
	r.Clear(b)
	r.content = nodes
	if parent := b.Parent(r.End); parent != nil {
		InsertAll(b, parent, nodes, r.End)
	}
}

// Flatten expands ranges into their anchors and current content.
func Flatten(nodes Nodes) Nodes {
	out := make(Nodes, 0, len(nodes))
	return appendFlat(out, nodes)
}

func appendFlat(out, nodes Nodes) Nodes {
	for _, n := range nodes {
		if r, ok := n.(*Range); ok {
			out = append(out, r.Start)
			out = appendFlat(out, r.content)
			out = append(out, r.End)
			continue
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// First returns the first backend node of nodes, or nil.
func First(nodes Nodes) backend.Node {
	for _, n := range nodes {
		if r, ok := n.(*Range); ok {
			return r.Start
		}
		if n != nil {
			return n
		}
	}
	return nil
}

// InsertAll inserts the flattened nodes under parent before anchor.
func InsertAll(b backend.Backend, parent backend.Node, nodes Nodes, anchor backend.Node) {
	for _, n := range Flatten(nodes) {
		b.Insert(parent, n, anchor)
	}
}

// DestroyAll destroys the flattened nodes.
func DestroyAll(b backend.Backend, nodes Nodes) {
	for _, n := range Flatten(nodes) {
		b.Destroy(n)
	}
}
