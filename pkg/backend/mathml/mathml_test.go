package mathml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/vango-dev/lumen/pkg/backend/backendtest"
)

func TestContract(t *testing.T) {
	backendtest.Run(t, func() backendtest.Target { return New() }, "mrow")
}

func TestNamespacedElements(t *testing.T) {
	b := New()
	math := b.Element("math")
	frac := b.Element("mfrac")
	b.Insert(math, frac, nil)

	num := b.Element("mn")
	b.Insert(num, b.Text("1"), nil)
	den := b.Element("mi")
	b.Insert(den, b.Text("x"), nil)
	b.Insert(frac, num, nil)
	b.Insert(frac, den, nil)

	assert.Equal(t, "math", frac.(*html.Node).Namespace)
	assert.Equal(t,
		`<math xmlns="http://www.w3.org/1998/Math/MathML"><mfrac><mn>1</mn><mi>x</mi></mfrac></math>`,
		b.String(math))
}

func TestPrefixedAttr(t *testing.T) {
	b := New()
	mi := b.Element("mi")
	b.Attr(mi, "xlink:href", "#def")
	b.Attr(mi, "mathvariant", "bold")
	b.Attr(mi, "data:x", "kept")

	n := mi.(*html.Node)
	require.Len(t, n.Attr, 3)
	assert.Equal(t, html.Attribute{Namespace: "xlink", Key: "href", Val: "#def"}, n.Attr[0])
	assert.Equal(t, "mathvariant", n.Attr[1].Key)
	assert.Equal(t, "data:x", n.Attr[2].Key)

	b.Attr(mi, "xlink:href", nil)
	assert.Len(t, n.Attr, 2)
}

func TestParseMathMarkup(t *testing.T) {
	b := New()
	root, err := b.Parse(strings.NewReader(`<math><mi>y</mi></math>`))
	require.NoError(t, err)

	kids := b.Children(root)
	require.Len(t, kids, 1)
	assert.Equal(t, "math", b.TagName(kids[0]))
	mi := b.Children(kids[0])[0]
	assert.Equal(t, "mi", b.TagName(mi))
	assert.Equal(t, "math", mi.(*html.Node).Namespace)
}

func TestIsElement(t *testing.T) {
	assert.True(t, IsElement("mfrac"))
	assert.False(t, IsElement("div"))
}
