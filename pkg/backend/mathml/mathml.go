// Package mathml implements a namespace-aware backend for MathML markup.
//
// It shares the HTML node representation with package dom but creates
// every element in the MathML namespace and resolves prefixed attribute
// names (xlink:href, xml:lang) to their namespaces.
package mathml

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
)

// Namespace is the MathML namespace URI.
const Namespace = "http://www.w3.org/1998/Math/MathML"

// nsPrefix is the namespace key x/net/html uses for MathML elements.
const nsPrefix = "math"

// knownPrefixes maps attribute prefixes to their namespace keys.
var knownPrefixes = map[string]string{
	"xlink": "xlink",
	"xml":   "xml",
	"xmlns": "xmlns",
}

// elements is the set of presentation and container tags.
var elements = map[string]bool{
	"math": true, "mi": true, "mn": true, "mo": true, "ms": true, "mtext": true,
	"mspace": true, "mrow": true, "mfrac": true, "msqrt": true, "mroot": true,
	"mstyle": true, "merror": true, "mpadded": true, "mphantom": true,
	"mfenced": true, "menclose": true, "msub": true, "msup": true,
	"msubsup": true, "munder": true, "mover": true, "munderover": true,
	"mmultiscripts": true, "mtable": true, "mtr": true, "mtd": true,
	"semantics": true, "annotation": true, "annotation-xml": true,
}

// IsElement reports whether tag is a MathML element name.
func IsElement(tag string) bool {
	return elements[tag]
}

// Backend builds MathML trees.
type Backend struct {
	*dom.Backend
}

// New creates a MathML backend.
func New() *Backend {
	return &Backend{Backend: dom.New()}
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.Walker     = (*Backend)(nil)
	_ backend.Serializer = (*Backend)(nil)
	_ backend.Parser     = (*Backend)(nil)
	_ backend.AttrLister = (*Backend)(nil)
)

// Element creates an element in the MathML namespace. The math root carries
// the xmlns declaration.
func (b *Backend) Element(tag string) backend.Node {
	n := b.Backend.Element(tag).(*html.Node)
	n.Namespace = nsPrefix
	if tag == "math" {
		dom.SetAttrNS(n, "", "xmlns", Namespace)
	}
	return n
}

// Attr sets an attribute, resolving a known prefix to its namespace.
func (b *Backend) Attr(node backend.Node, name string, value any) {
	n, ok := node.(*html.Node)
	if !ok || n.Type != html.ElementNode {
		return
	}
	ns, key := splitName(name)
	dom.SetAttrNS(n, ns, key, value)
}

func splitName(name string) (namespace, key string) {
	prefix, local, found := strings.Cut(name, ":")
	if !found {
		return "", name
	}
	if ns, ok := knownPrefixes[prefix]; ok {
		return ns, local
	}
	return "", name
}
