// Package remote implements a backend that mirrors every node operation to
// connected clients.
//
// Backend wraps another backend, applies each operation to it and records
// the operation in an op log. Flush hands the recorded batch to a Sink such
// as Hub, which streams it to browsers over WebSocket.
package remote

import (
	"fmt"
	"sync"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/pool"
)

// OpKind names a recorded operation.
type OpKind string

const (
	OpElement  OpKind = "element"
	OpText     OpKind = "text"
	OpComment  OpKind = "comment"
	OpFragment OpKind = "fragment"
	OpAttr     OpKind = "attr"
	OpProp     OpKind = "prop"
	OpInsert   OpKind = "insert"
	OpDestroy  OpKind = "destroy"
	OpClear    OpKind = "clear"
)

// Op is one recorded node operation. Nodes are referred to by the IDs the
// Backend assigned when they were created; 0 means none.
type Op struct {
	Seq    uint64 `json:"seq"`
	Kind   OpKind `json:"op"`
	Node   uint64 `json:"node"`
	Parent uint64 `json:"parent,omitempty"`
	Anchor uint64 `json:"anchor,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// opBuffers holds the per-backend op logs.
var opBuffers = pool.New("ops",
	func() *[]Op {
		s := make([]Op, 0, 64)
		return &s
	},
	func(s *[]Op) {
		clear(*s)
		*s = (*s)[:0]
	},
)

// Sink receives flushed op batches.
type Sink interface {
	Publish(ops []Op)
}

// Backend records operations applied to an inner backend.
type Backend struct {
	inner backend.Backend

	mu     sync.Mutex
	ids    map[backend.Node]uint64
	nextID uint64
	seq    uint64
	buf    *[]Op
}

// New wraps inner.
func New(inner backend.Backend) *Backend {
	return &Backend{
		inner: inner,
		ids:   make(map[backend.Node]uint64),
	}
}

var _ backend.Backend = (*Backend)(nil)

// Inner returns the wrapped backend.
func (b *Backend) Inner() backend.Backend {
	return b.inner
}

// NodeID returns the ID assigned to node, or 0 if it is unknown.
func (b *Backend) NodeID(node backend.Node) uint64 {
	if node == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ids[node]
}

// Adopt assigns an ID to a node created outside the recorder, such as the
// mount root.
func (b *Backend) Adopt(node backend.Node) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idLocked(node)
}

func (b *Backend) idLocked(node backend.Node) uint64 {
	if node == nil {
		return 0
	}
	if id, ok := b.ids[node]; ok {
		return id
	}
	b.nextID++
	b.ids[node] = b.nextID
	return b.nextID
}

func (b *Backend) record(op Op, nodes ...backend.Node) {
	b.mu.Lock()
	defer b.mu.Unlock()

	op.Node = b.idLocked(nodes[0])
	if len(nodes) > 1 {
		op.Parent = b.idLocked(nodes[1])
	}
	if len(nodes) > 2 && nodes[2] != nil {
		op.Anchor = b.idLocked(nodes[2])
	}
	b.seq++
	op.Seq = b.seq
	if b.buf == nil {
		b.buf = opBuffers.Acquire()
	}
	*b.buf = append(*b.buf, op)
}

// Element creates an element.
func (b *Backend) Element(tag string) backend.Node {
	n := b.inner.Element(tag)
	b.record(Op{Kind: OpElement, Name: tag}, n)
	return n
}

// Text creates a text node.
func (b *Backend) Text(content string) backend.Node {
	n := b.inner.Text(content)
	b.record(Op{Kind: OpText, Value: content}, n)
	return n
}

// Comment creates a comment node.
func (b *Backend) Comment(content string) backend.Node {
	n := b.inner.Comment(content)
	b.record(Op{Kind: OpComment, Value: content}, n)
	return n
}

// Fragment creates a fragment.
func (b *Backend) Fragment() backend.Node {
	n := b.inner.Fragment()
	b.record(Op{Kind: OpFragment}, n)
	return n
}

// Attr sets an attribute.
func (b *Backend) Attr(node backend.Node, name string, value any) {
	b.inner.Attr(node, name, value)
	b.record(Op{Kind: OpAttr, Name: name, Value: wireValue(value)}, node)
}

// Prop sets a property.
func (b *Backend) Prop(node backend.Node, name string, value any) {
	b.inner.Prop(node, name, value)
	b.record(Op{Kind: OpProp, Name: name, Value: wireValue(value)}, node)
}

// Insert places node under parent before anchor.
func (b *Backend) Insert(parent, node, anchor backend.Node) {
	b.inner.Insert(parent, node, anchor)
	b.record(Op{Kind: OpInsert}, node, parent, anchor)
}

// Destroy detaches node and forgets the IDs of its whole subtree.
func (b *Backend) Destroy(node backend.Node) {
	gone := b.subtree(node, nil)
	b.inner.Destroy(node)
	b.record(Op{Kind: OpDestroy}, node)
	b.forget(gone)
}

// ClearChildren removes every child of node and forgets their IDs.
func (b *Backend) ClearChildren(node backend.Node) {
	var gone []backend.Node
	for _, c := range backend.ChildNodes(b.inner, node) {
		gone = b.subtree(c, gone)
	}
	b.inner.ClearChildren(node)
	b.record(Op{Kind: OpClear}, node)
	b.forget(gone)
}

// subtree appends node and, when the inner backend can walk, its
// descendants.
func (b *Backend) subtree(node backend.Node, out []backend.Node) []backend.Node {
	if node == nil {
		return out
	}
	out = append(out, node)
	for _, c := range backend.ChildNodes(b.inner, node) {
		out = b.subtree(c, out)
	}
	return out
}

func (b *Backend) forget(nodes []backend.Node) {
	b.mu.Lock()
	for _, n := range nodes {
		delete(b.ids, n)
	}
	b.mu.Unlock()
}

// Known reports how many nodes currently have an ID.
func (b *Backend) Known() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ids)
}

// Parent returns the parent from the inner backend.
func (b *Backend) Parent(node backend.Node) backend.Node {
	return b.inner.Parent(node)
}

// IsNode delegates to the inner backend.
func (b *Backend) IsNode(v any) bool {
	return b.inner.IsNode(v)
}

// Pending returns the number of recorded operations not yet flushed.
func (b *Backend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf == nil {
		return 0
	}
	return len(*b.buf)
}

// Flush hands the recorded batch to sink and recycles the buffer. It
// returns the number of operations flushed.
func (b *Backend) Flush(sink Sink) int {
	b.mu.Lock()
	buf := b.buf
	b.buf = nil
	b.mu.Unlock()

	if buf == nil {
		return 0
	}
	n := len(*buf)
	if n > 0 && sink != nil {
		sink.Publish(*buf)
	}
	opBuffers.Release(buf)
	return n
}

// Drain returns a copy of the recorded batch and clears it.
func (b *Backend) Drain() []Op {
	var out []Op
	b.Flush(SinkFunc(func(ops []Op) {
		out = append([]Op(nil), ops...)
	}))
	return out
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ops []Op)

// Publish calls f.
func (f SinkFunc) Publish(ops []Op) { f(ops) }

// wireValue keeps JSON-friendly scalars and stringifies everything else.
func wireValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64, uint, uint32, uint64:
		return v
	default:
		return fmt.Sprint(v)
	}
}
