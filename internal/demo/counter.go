package demo

import (
	"github.com/vango-dev/lumen/pkg/control"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// Counter renders count with its double and a parity badge.
func Counter(count *lumen.Cell[int]) render.Component {
	return func(c *render.Context) render.Nodes {
		var double *lumen.MergedCell[int]
		var even *lumen.MergedCell[bool]
		c.Run(func() {
			double = lumen.NewMergedTagged("Counter.double", func() int { return count.Get() * 2 })
			even = lumen.NewMergedTagged("Counter.even", func() bool { return count.Get()%2 == 0 })
		})

		return render.Nodes{
			c.El("section", render.Attr("class", "counter"), render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{
					c.El("output", render.BindAttr[int]("data-count", count), render.Children(func(c *render.Context) render.Nodes {
						return render.Nodes{render.BindText[int](c, count)}
					})),
					c.El("span", render.Attr("class", "double"), render.Children(func(c *render.Context) render.Nodes {
						return render.Nodes{render.BindText[int](c, double)}
					})),
					control.If[bool](c, even,
						func(c *render.Context) render.Nodes {
							return render.Nodes{c.El("em", render.TextChild("even"))}
						},
						func(c *render.Context) render.Nodes {
							return render.Nodes{c.El("em", render.TextChild("odd"))}
						}),
				}
			})),
		}
	}
}

// StaticCounter renders a Counter over a fresh cell holding start.
func StaticCounter(start int) render.Component {
	return func(c *render.Context) render.Nodes {
		var count *lumen.Cell[int]
		c.Run(func() { count = lumen.NewCell(start, lumen.WithTag[int]("Counter.count")) })
		return Counter(count)(c)
	}
}
