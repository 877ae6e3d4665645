package pdf

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/backend/backendtest"
)

func TestContract(t *testing.T) {
	backendtest.Run(t, func() backendtest.Target { return New() }, "view")
}

func TestElementTreeShape(t *testing.T) {
	doc := &Element{Tag: "document"}
	a := &Element{Tag: "page"}
	b := &Element{Tag: "page"}

	doc.AppendChild(a)
	doc.InsertBefore(b, a)
	require.Equal(t, []*Element{b, a}, doc.Children())
	assert.Equal(t, doc, a.ParentElement())

	a.Remove()
	assert.Nil(t, a.ParentElement())
	assert.Equal(t, []*Element{b}, doc.Children())

	doc.RemoveChild(a)
	assert.Len(t, doc.Children(), 1)
}

func buildDoc(b *Backend) *Element {
	doc := b.Element("document")
	for _, title := range []string{"First", "Second"} {
		page := b.Element("page")
		h := b.Element("h1")
		b.Insert(h, b.Text(title), nil)
		p := b.Element("p")
		b.Insert(p, b.Text("Total: "), nil)
		b.Insert(p, b.Text("(5)"), nil)
		b.Insert(page, h, nil)
		b.Insert(page, p, nil)
		b.Insert(doc, page, nil)
	}
	return doc.(*Element)
}

func TestLayout(t *testing.T) {
	pages := Layout(buildDoc(New()))
	require.Len(t, pages, 2)
	assert.Equal(t, []Line{
		{Text: "First", Size: 24},
		{Text: "Total: (5)", Size: defaultFontSize},
	}, pages[0])
}

func TestLayoutSizeAttr(t *testing.T) {
	b := New()
	root := b.Element("document")
	p := b.Element("p")
	b.Attr(p, "size", 9)
	b.Insert(p, b.Text("small"), nil)
	b.Insert(root, p, nil)

	pages := Layout(root.(*Element))
	require.Len(t, pages, 1)
	assert.Equal(t, []Line{{Text: "small", Size: 9}}, pages[0])
}

func TestWrite(t *testing.T) {
	b := New()
	var buf bytes.Buffer
	require.NoError(t, b.Serialize(&buf, buildDoc(b)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "%PDF-1.4\n"))
	assert.True(t, strings.HasSuffix(out, "%%EOF\n"))
	assert.Contains(t, out, "/Count 2")
	assert.Contains(t, out, `(Total: \(5\)) Tj`)

	// startxref must point at the xref table.
	idx := strings.LastIndex(out, "startxref\n")
	require.Positive(t, idx)
	rest := strings.SplitN(out[idx+len("startxref\n"):], "\n", 2)[0]
	off, err := strconv.Atoi(rest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out[off:], "xref\n"))
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\\b \(c\) ?`, escapeText("a\\b (c) é"))
}
