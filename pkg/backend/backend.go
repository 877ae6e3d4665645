package backend

import "io"

// Node is an opaque node handle produced by a Backend.
type Node = any

// Backend is the node-operation set a renderer target implements.
//
// Destroy, ClearChildren and Insert must tolerate nodes that are already
// detached or destroyed; such calls are no-ops, never errors.
type Backend interface {
	// Element creates an element with the given tag name.
	Element(tag string) Node

	// Text creates a text node.
	Text(content string) Node

	// Comment creates a comment node. Comments serve as anchors.
	Comment(content string) Node

	// Fragment creates a detached container. Inserting a fragment moves its
	// children and leaves the fragment empty.
	Fragment() Node

	// Attr sets an attribute. A nil or false value removes it; true sets it
	// without a value.
	Attr(node Node, name string, value any)

	// Prop sets a property. Every backend understands PropTextContent.
	Prop(node Node, name string, value any)

	// Insert places node under parent before anchor, or last when anchor is
	// nil. A node that already has a parent is moved.
	Insert(parent, node, anchor Node)

	// Destroy detaches node from its parent.
	Destroy(node Node)

	// ClearChildren removes every child of node.
	ClearChildren(node Node)

	// Parent returns the node's parent, or nil when detached.
	Parent(node Node) Node

	// IsNode reports whether v is a node of this backend.
	IsNode(v any) bool
}

// PropTextContent is the property that replaces a node's text.
const PropTextContent = "textContent"

// Kind is the node type discriminator reported by a Walker.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <mi>, page, rect
	KindText                 // Plain text node
	KindComment              // Comment or anchor
	KindFragment             // Detached container
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Walker enumerates existing nodes. Rehydration requires it.
type Walker interface {
	// Children returns a snapshot of node's children in document order.
	Children(node Node) []Node

	// Kind returns the node type.
	Kind(node Node) Kind

	// TagName returns the element tag, or "" for non-elements.
	TagName(node Node) string

	// TextContent returns the data of a text or comment node.
	TextContent(node Node) string
}

// AttrLister reports the attributes set on an element. Rehydration uses it
// to drop server attributes the client construction no longer sets.
type AttrLister interface {
	// AttrNames returns the names of node's attributes, in no particular
	// order. Namespaced attributes may be left out.
	AttrNames(node Node) []string
}

// Serializer writes a subtree in the backend's output format.
type Serializer interface {
	Serialize(w io.Writer, node Node) error
}

// Parser builds nodes from serialized output, so previously rendered
// markup can be rehydrated.
type Parser interface {
	Parse(r io.Reader) (Node, error)
}

// ChildNodes returns node's children when b implements Walker.
func ChildNodes(b Backend, node Node) []Node {
	if w, ok := b.(Walker); ok {
		return w.Children(node)
	}
	return nil
}
