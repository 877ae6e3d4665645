package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vango-dev/lumen/pkg/backend"
)

// Default canvas size when the root carries no width or height.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

// Paint rasterizes root into a new RGBA image. The root's width, height and
// background attributes size and fill the image; a scale attribute above 1
// enlarges the result with nearest-neighbor sampling.
func Paint(root *Shape) *image.RGBA {
	w := attrInt(root, "width", DefaultWidth)
	h := attrInt(root, "height", DefaultHeight)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := parseColor(root.Attrs["background"], color.White)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	paintChildren(img, root, image.Point{})

	scale := attrInt(root, "scale", 1)
	if scale <= 1 {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled
}

// EncodePNG paints root and writes it as PNG.
func EncodePNG(w io.Writer, root *Shape) error {
	return png.Encode(w, Paint(root))
}

func paintChildren(img *image.RGBA, s *Shape, origin image.Point) {
	for _, c := range s.children {
		paintShape(img, c, origin)
	}
}

func paintShape(img *image.RGBA, s *Shape, origin image.Point) {
	if s.kind != backend.KindElement {
		return
	}
	x := origin.X + attrInt(s, "x", 0)
	y := origin.Y + attrInt(s, "y", 0)
	fill := parseColor(s.Attrs["fill"], color.Black)

	switch s.Tag {
	case "g":
		paintChildren(img, s, image.Pt(x, y))
	case "rect":
		r := image.Rect(x, y, x+attrInt(s, "width", 0), y+attrInt(s, "height", 0))
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
	case "circle":
		fillCircle(img,
			origin.X+attrInt(s, "cx", 0),
			origin.Y+attrInt(s, "cy", 0),
			attrInt(s, "r", 0), fill)
	case "text":
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fill),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
		}
		d.DrawString(textOf(s))
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	if r <= 0 {
		return
	}
	src := image.NewUniform(c)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				p := image.Pt(cx+dx, cy+dy)
				draw.Draw(img, image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}, src, image.Point{}, draw.Over)
			}
		}
	}
}

// TextWidth returns the painted width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func attrInt(s *Shape, name string, def int) int {
	v, ok := s.Attrs[name]
	if !ok {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return int(n)
}

// parseColor accepts an SVG color name or #rgb / #rrggbb.
func parseColor(v string, def color.Color) color.Color {
	if v == "" {
		return def
	}
	if c, ok := colornames.Map[strings.ToLower(v)]; ok {
		return c
	}
	if !strings.HasPrefix(v, "#") {
		return def
	}
	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	var r, g, b uint8
	if len(hex) != 6 {
		return def
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return def
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
