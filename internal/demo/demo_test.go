package demo

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/app"
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/canvas"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/backend/mathml"
	"github.com/vango-dev/lumen/pkg/backend/pdf"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
	"github.com/vango-dev/lumen/pkg/rendertest"
	"github.com/vango-dev/lumen/pkg/ssr"
)

func queue(t *testing.T) ssr.Option {
	t.Helper()
	q := app.NewQueue()
	t.Cleanup(q.Close)
	return ssr.WithQueue(q)
}

func mountDOM(t *testing.T, comp render.Component) (*dom.Backend, backend.Node) {
	t.Helper()
	b := dom.New()
	root := b.Element("div")
	render.Mount(b, root, lumen.NewOwner(nil), comp)
	return b, root
}

func TestCounter(t *testing.T) {
	count := lumen.NewCell(1)
	b, root := mountDOM(t, Counter(count))

	want := `<div><section class="counter"><output data-count="1">1</output><span class="double">2</span><!--if--><em>odd</em><!--/if--></section></div>`
	assert.Equal(t, want, b.String(root))

	count.Set(4)
	want = `<div><section class="counter"><output data-count="4">4</output><span class="double">8</span><!--if--><em>even</em><!--/if--></section></div>`
	assert.Equal(t, want, b.String(root))
}

func TestTodos(t *testing.T) {
	list := NewTodoList("a", "b", "c")
	h := rendertest.Mount(t, Todos(list))

	h.ExpectContains(`<li data-index="0"><input type="checkbox"/>a</li>`)
	h.ExpectContains("3 left")
	h.ExpectNotContains("Nothing to do")

	list.Toggle(1)
	h.ExpectContains(`<li data-index="0" class="done"><input type="checkbox" checked=""/>a</li>`)
	h.ExpectContains("2 left")

	list.Rotate()
	out := h.HTML()
	assert.Less(t, strings.Index(out, ">c</li>"), strings.Index(out, ">a</li>"))
	h.ExpectContains(`<li data-index="0"><input type="checkbox"/>c</li>`)

	id := list.Add("d")
	h.ExpectContains(">d</li>")
	list.Remove(id)
	h.ExpectNotContains(">d</li>")

	for _, todo := range lumen.UntrackedGet[[]Todo](list.Items) {
		list.Remove(todo.ID)
	}
	h.ExpectContains(`<p class="empty">Nothing to do</p>`)
	h.ExpectContains("0 left")
}

func TestTodosHydrate(t *testing.T) {
	list := NewTodoList("a", "b")
	h := rendertest.Hydrate(t, Todos(list))
	h.ExpectClean()

	list.Add("c")
	h.ExpectContains(">c</li>")
	h.ExpectContains("3 left")
}

func TestCounterHydrate(t *testing.T) {
	count := lumen.NewCell(3)
	h := rendertest.Hydrate(t, Counter(count))
	h.ExpectClean()

	count.Set(6)
	h.ExpectContains("<em>even</em>")
	h.ExpectNotContains("<em>odd</em>")
}

func TestFormula(t *testing.T) {
	out, err := ssr.RenderToString(context.Background(), mathml.New(), Formula(), queue(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<math display="block" xmlns="http://www.w3.org/1998/Math/MathML">`) ||
		strings.HasPrefix(out, `<math xmlns="http://www.w3.org/1998/Math/MathML" display="block">`), out)
	assert.Contains(t, out, "<msup><mi>b</mi><mn>2</mn></msup>")
}

func TestChartPaints(t *testing.T) {
	b := canvas.New()
	root := b.Element("canvas")
	b.Attr(root, "width", ChartWidth)
	b.Attr(root, "height", ChartHeight)

	bars := lumen.NewCell(DefaultBars())
	render.Mount(b, root, lumen.NewOwner(nil), Chart(bars))

	img := canvas.Paint(root.(*canvas.Shape))
	assert.Equal(t, color.RGBA{70, 130, 180, 255}, img.RGBAAt(30, 170))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(30, 100))

	bars.Set([]Bar{{Label: "mon", Value: 120}})
	img = canvas.Paint(root.(*canvas.Shape))
	assert.Equal(t, color.RGBA{70, 130, 180, 255}, img.RGBAAt(30, 100))
}

func TestReportPDF(t *testing.T) {
	out, err := ssr.RenderToString(context.Background(), pdf.New(), WeeklyReport(), queue(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "%PDF-1.4"))
	assert.Contains(t, out, "(Weekly report) Tj")
	assert.Contains(t, out, "(Total: 345 across 5 days) Tj")
	assert.Contains(t, out, "(thu: 120) Tj")
	assert.Contains(t, out, "/Count 2")
}

func TestRoutesRender(t *testing.T) {
	for _, r := range Routes() {
		b := backend.Backend(dom.New())
		if r.Backend != nil {
			b = r.Backend()
		}
		out, err := ssr.RenderToString(context.Background(), b, r.Component, queue(t))
		require.NoError(t, err, r.Path)
		assert.NotEmpty(t, out, r.Path)
	}
	_, ok := Lookup("/todos")
	assert.True(t, ok)
	_, ok = Lookup("/nope")
	assert.False(t, ok)
}
