package demo

import (
	"github.com/vango-dev/lumen/pkg/control"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// Bar is one bar of a Chart.
type Bar struct {
	Label string
	Value int
	Color string
}

// Chart geometry.
const (
	ChartWidth  = 320
	ChartHeight = 200
	barWidth    = 40
	barGap      = 16
)

// Chart renders bars as a canvas scene. Mount it into a canvas root; the
// root's width, height and background are set by the component.
func Chart(bars lumen.Reader[[]Bar]) render.Component {
	return func(c *render.Context) render.Nodes {
		return render.Nodes{
			c.El("rect",
				render.Attr("x", 0), render.Attr("y", ChartHeight-20),
				render.Attr("width", ChartWidth), render.Attr("height", 1),
				render.Attr("fill", "gray")),
			control.Each(c, bars, func(b Bar, _ int) string { return b.Label }, chartBar),
		}
	}
}

func chartBar(c *render.Context, bar lumen.Reader[Bar], index lumen.Reader[int]) render.Nodes {
	var x, y, h *lumen.MergedCell[int]
	var fill *lumen.MergedCell[string]
	c.Run(func() {
		x = lumen.NewMerged(func() int { return barGap + index.Get()*(barWidth+barGap) })
		h = lumen.NewMerged(func() int { return min(bar.Get().Value, ChartHeight-40) })
		y = lumen.NewMerged(func() int { return ChartHeight - 20 - h.Get() })
		fill = lumen.NewMerged(func() string {
			if col := bar.Get().Color; col != "" {
				return col
			}
			return "steelblue"
		})
	})

	return render.Nodes{
		c.El("g", render.BindAttr[int]("x", x), render.Children(func(c *render.Context) render.Nodes {
			return render.Nodes{
				c.El("rect",
					render.BindAttr[int]("y", y),
					render.Attr("width", barWidth),
					render.BindAttr[int]("height", h),
					render.BindAttr[string]("fill", fill)),
				c.El("text",
					render.Attr("y", ChartHeight-16),
					render.Children(func(c *render.Context) render.Nodes {
						return render.Nodes{c.Text(lumen.UntrackedGet(bar).Label)}
					})),
			}
		})),
	}
}

// DefaultBars is the data the CLI paints.
func DefaultBars() []Bar {
	return []Bar{
		{Label: "mon", Value: 40},
		{Label: "tue", Value: 90, Color: "tomato"},
		{Label: "wed", Value: 65},
		{Label: "thu", Value: 120, Color: "seagreen"},
		{Label: "fri", Value: 30},
	}
}
