package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/backendtest"
)

func TestContract(t *testing.T) {
	backendtest.Run(t, func() backendtest.Target { return New() }, "div")
}

func TestAttr(t *testing.T) {
	b := New()
	el := b.Element("input")

	b.Attr(el, "type", "checkbox")
	b.Attr(el, "tabindex", 3)
	b.Attr(el, "required", true)
	assert.Equal(t, `<input type="checkbox" tabindex="3" required=""/>`, b.String(el))

	b.Attr(el, "required", false)
	b.Attr(el, "tabindex", nil)
	b.Attr(el, "type", "text")
	assert.Equal(t, `<input type="text"/>`, b.String(el))

	v, ok := GetAttr(el, "type")
	assert.True(t, ok)
	assert.Equal(t, "text", v)
}

func TestPropReflection(t *testing.T) {
	b := New()
	el := b.Element("input")

	b.Prop(el, "value", "hello")
	b.Prop(el, "onInput", "handler")

	got, ok := b.PropValue(el, "onInput")
	require.True(t, ok)
	assert.Equal(t, "handler", got)
	assert.Equal(t, `<input value="hello"/>`, b.String(el))
}

func TestElementTextContent(t *testing.T) {
	b := New()
	p := b.Element("p")
	b.Insert(p, b.Element("b"), nil)
	b.Prop(p, backend.PropTextContent, "plain")

	assert.Equal(t, "<p>plain</p>", b.String(p))
}

func TestSerializeFragment(t *testing.T) {
	b := New()
	root := b.Fragment()
	span := b.Element("span")
	b.Insert(span, b.Text("5 < 6"), nil)
	b.Insert(root, span, nil)
	b.Insert(root, b.Comment("anchor"), nil)

	assert.Equal(t, "<span>5 &lt; 6</span><!--anchor-->", b.String(root))
}

func TestParseRoundTrip(t *testing.T) {
	b := New()
	root, err := b.Parse(strings.NewReader(`<ul><li>a</li><li>b</li></ul><!--end-->`))
	require.NoError(t, err)

	kids := b.Children(root)
	require.Len(t, kids, 2)
	assert.Equal(t, "ul", b.TagName(kids[0]))
	assert.Equal(t, backend.KindComment, b.Kind(kids[1]))
	assert.Equal(t, "ab", b.TextContent(kids[0]))
	assert.Nil(t, b.Parent(root))
	assert.Equal(t, root, b.Parent(kids[0]))
}

func TestDestroyDropsSubtreeProps(t *testing.T) {
	b := New()
	root := b.Element("ul")
	li := b.Element("li")
	input := b.Element("input")
	b.Prop(input, "value", "x")
	b.Prop(li, "data", 1)
	b.Insert(li, input, nil)
	b.Insert(root, li, nil)
	require.Equal(t, 2, b.Props())

	b.Destroy(li)
	_, ok := b.PropValue(input, "value")
	assert.False(t, ok)
	_, ok = b.PropValue(li, "data")
	assert.False(t, ok)
	assert.Zero(t, b.Props())
}

func TestClearChildrenDropsProps(t *testing.T) {
	b := New()
	root := b.Element("ul")
	for i := 0; i < 100; i++ {
		li := b.Element("li")
		input := b.Element("input")
		b.Prop(input, "checked", i%2 == 0)
		b.Insert(li, input, nil)
		b.Insert(root, li, nil)
	}
	require.Equal(t, 100, b.Props())

	b.ClearChildren(root)
	assert.Zero(t, b.Props())
	assert.Equal(t, "<ul></ul>", b.String(root))
}
