package canvas

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/backendtest"
)

func TestContract(t *testing.T) {
	backendtest.Run(t, func() backendtest.Target { return New() }, "g")
}

func scene(b *Backend) *Shape {
	root := b.Element("canvas")
	b.Attr(root, "width", 40)
	b.Attr(root, "height", 20)
	b.Attr(root, "background", "#000")

	g := b.Element("g")
	b.Attr(g, "x", 10)
	rect := b.Element("rect")
	b.Attr(rect, "width", 5)
	b.Attr(rect, "height", 5)
	b.Attr(rect, "fill", "red")
	b.Insert(g, rect, nil)
	b.Insert(root, g, nil)

	circle := b.Element("circle")
	b.Attr(circle, "cx", 30)
	b.Attr(circle, "cy", 10)
	b.Attr(circle, "r", 3)
	b.Attr(circle, "fill", "#00ff00")
	b.Insert(root, circle, nil)
	return root.(*Shape)
}

func TestPaint(t *testing.T) {
	img := Paint(scene(New()))

	require.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, colornames.Red, img.RGBAAt(12, 2), "rect is offset by its group")
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, img.RGBAAt(30, 10))
}

func TestPaintText(t *testing.T) {
	b := New()
	root := b.Element("canvas")
	text := b.Element("text")
	b.Insert(text, b.Text("Hi"), nil)
	b.Insert(root, text, nil)

	img := Paint(root.(*Shape))
	dark := 0
	for y := 0; y < 13; y++ {
		for x := 0; x < TextWidth("Hi"); x++ {
			if img.RGBAAt(x, y).R < 0x80 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "text should leave ink on the canvas")
	assert.Equal(t, 14, TextWidth("Hi"))
}

func TestPaintScale(t *testing.T) {
	b := New()
	root := scene(b)
	b.Attr(root, "scale", 2)

	img := Paint(root)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, colornames.Red, img.RGBAAt(24, 4))
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, scene(New())))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestPropsBecomeAttrs(t *testing.T) {
	b := New()
	r := b.Element("rect")
	b.Prop(r, "fill", "blue")
	assert.Equal(t, "blue", r.(*Shape).Attrs["fill"])

	b.Prop(r, "fill", nil)
	_, ok := r.(*Shape).Attrs["fill"]
	assert.False(t, ok)
	assert.Equal(t, backend.KindElement, b.Kind(r))
}

func TestParseColor(t *testing.T) {
	def := color.Gray{}
	assert.Equal(t, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, parseColor("#abc", def))
	assert.Equal(t, colornames.Navy, parseColor("Navy", def))
	assert.Equal(t, def, parseColor("#12", def))
	assert.Equal(t, def, parseColor("nope", def))
}
