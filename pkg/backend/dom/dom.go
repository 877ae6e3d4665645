// Package dom implements the HTML document backend.
//
// Nodes are *html.Node values from golang.org/x/net/html, so a tree built
// by components can be serialized with html.Render and server markup parsed
// with html.ParseFragment can be rehydrated in place.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/lumen/pkg/backend"
)

// reflectedProps are properties mirrored into attributes so that
// serialized markup shows the current form state.
var reflectedProps = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
	"disabled": true,
}

// Backend builds *html.Node trees.
type Backend struct {
	mu    sync.Mutex
	props map[*html.Node]map[string]any
}

// New creates an HTML backend.
func New() *Backend {
	return &Backend{props: make(map[*html.Node]map[string]any)}
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.Walker     = (*Backend)(nil)
	_ backend.Serializer = (*Backend)(nil)
	_ backend.Parser     = (*Backend)(nil)
	_ backend.AttrLister = (*Backend)(nil)
)

func asNode(v backend.Node) *html.Node {
	n, _ := v.(*html.Node)
	return n
}

// Element creates an element node.
func (b *Backend) Element(tag string) backend.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Text creates a text node.
func (b *Backend) Text(content string) backend.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// Comment creates a comment node.
func (b *Backend) Comment(content string) backend.Node {
	return &html.Node{Type: html.CommentNode, Data: content}
}

// Fragment creates a detached container.
func (b *Backend) Fragment() backend.Node {
	return &html.Node{Type: html.DocumentNode}
}

// Attr sets or removes an attribute.
func (b *Backend) Attr(node backend.Node, name string, value any) {
	n := asNode(node)
	if n == nil || n.Type != html.ElementNode {
		return
	}
	SetAttrNS(n, "", name, value)
}

// SetAttrNS sets or removes a namespaced attribute on n.
func SetAttrNS(n *html.Node, namespace, key string, value any) {
	idx := -1
	for i, a := range n.Attr {
		if a.Namespace == namespace && a.Key == key {
			idx = i
			break
		}
	}

	var (
		val    string
		remove bool
	)
	switch v := value.(type) {
	case nil:
		remove = true
	case bool:
		remove = !v
	case string:
		val = v
	default:
		val = fmt.Sprint(v)
	}

	switch {
	case remove && idx >= 0:
		n.Attr = append(n.Attr[:idx], n.Attr[idx+1:]...)
	case remove:
	case idx >= 0:
		n.Attr[idx].Val = val
	default:
		n.Attr = append(n.Attr, html.Attribute{Namespace: namespace, Key: key, Val: val})
	}
}

// GetAttr returns the value of an attribute and whether it is present.
func GetAttr(node backend.Node, name string) (string, bool) {
	n := asNode(node)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrNames returns the names of node's attributes without a namespace.
func (b *Backend) AttrNames(node backend.Node) []string {
	n := asNode(node)
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace == "" {
			names = append(names, a.Key)
		}
	}
	return names
}

// Prop sets a property. PropTextContent replaces the node's text; value,
// checked, selected and disabled are also reflected as attributes.
func (b *Backend) Prop(node backend.Node, name string, value any) {
	n := asNode(node)
	if n == nil {
		return
	}

	if name == backend.PropTextContent {
		text := toString(value)
		switch n.Type {
		case html.TextNode, html.CommentNode:
			n.Data = text
		case html.ElementNode, html.DocumentNode:
			b.ClearChildren(n)
			if text != "" {
				n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
			}
		}
		return
	}

	b.mu.Lock()
	p := b.props[n]
	if p == nil {
		p = make(map[string]any)
		b.props[n] = p
	}
	p[name] = value
	b.mu.Unlock()

	if reflectedProps[name] && n.Type == html.ElementNode {
		SetAttrNS(n, "", name, value)
	}
}

// PropValue returns a property previously set with Prop.
func (b *Backend) PropValue(node backend.Node, name string) (any, bool) {
	n := asNode(node)
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.props[n][name]
	return v, ok
}

// Insert places node under parent before anchor. Inserting a fragment moves
// its children.
func (b *Backend) Insert(parent, node, anchor backend.Node) {
	p, n := asNode(parent), asNode(node)
	if p == nil || n == nil || p == n {
		return
	}
	a := asNode(anchor)
	if a != nil && a.Parent != p {
		a = nil
	}

	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			insertBefore(p, c, a)
			c = next
		}
		return
	}
	if n == a {
		return
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	insertBefore(p, n, a)
}

func insertBefore(p, n, a *html.Node) {
	if a == nil {
		p.AppendChild(n)
		return
	}
	p.InsertBefore(n, a)
}

// Destroy detaches node and drops the properties of its whole subtree.
// Detached nodes are ignored.
func (b *Backend) Destroy(node backend.Node) {
	n := asNode(node)
	if n == nil {
		return
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	b.mu.Lock()
	b.forgetLocked(n)
	b.mu.Unlock()
}

// ClearChildren removes every child of node and drops their properties.
func (b *Backend) ClearChildren(node backend.Node) {
	n := asNode(node)
	if n == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		b.forgetLocked(c)
	}
}

func (b *Backend) forgetLocked(n *html.Node) {
	if len(b.props) == 0 {
		return
	}
	delete(b.props, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.forgetLocked(c)
	}
}

// Props reports how many nodes carry properties.
func (b *Backend) Props() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.props)
}

// Parent returns the parent node or nil.
func (b *Backend) Parent(node backend.Node) backend.Node {
	n := asNode(node)
	if n == nil || n.Parent == nil {
		return nil
	}
	return n.Parent
}

// IsNode reports whether v is an *html.Node.
func (b *Backend) IsNode(v any) bool {
	return asNode(v) != nil
}

// Children returns node's children in document order.
func (b *Backend) Children(node backend.Node) []backend.Node {
	n := asNode(node)
	if n == nil {
		return nil
	}
	var out []backend.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Kind returns the node type.
func (b *Backend) Kind(node backend.Node) backend.Kind {
	n := asNode(node)
	if n == nil {
		return backend.KindFragment
	}
	switch n.Type {
	case html.ElementNode:
		return backend.KindElement
	case html.TextNode:
		return backend.KindText
	case html.CommentNode:
		return backend.KindComment
	default:
		return backend.KindFragment
	}
}

// TagName returns the element tag.
func (b *Backend) TagName(node backend.Node) string {
	if n := asNode(node); n != nil && n.Type == html.ElementNode {
		return n.Data
	}
	return ""
}

// TextContent returns the text of a text or comment node, or the
// concatenated text of an element.
func (b *Backend) TextContent(node backend.Node) string {
	n := asNode(node)
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Serialize renders node as HTML. A fragment renders its children.
func (b *Backend) Serialize(w io.Writer, node backend.Node) error {
	n := asNode(node)
	if n == nil {
		return nil
	}
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return err
			}
		}
		return nil
	}
	return html.Render(w, n)
}

// Parse reads body-level HTML into a fragment.
func (b *Backend) Parse(r io.Reader) (backend.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return root, nil
}

// String renders node as HTML, ignoring errors.
func (b *Backend) String(node backend.Node) string {
	var sb strings.Builder
	_ = b.Serialize(&sb, node)
	return sb.String()
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
