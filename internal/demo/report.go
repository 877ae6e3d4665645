package demo

import (
	"fmt"

	"github.com/vango-dev/lumen/pkg/control"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// Report lays out the chart data as a PDF document: a summary page and a
// page with one line per bar. It targets the pdf backend.
func Report(bars lumen.Reader[[]Bar]) render.Component {
	return func(c *render.Context) render.Nodes {
		var total *lumen.MergedCell[string]
		c.Run(func() {
			total = lumen.NewMerged(func() string {
				sum := 0
				for _, b := range bars.Get() {
					sum += b.Value
				}
				return fmt.Sprintf("Total: %d across %d days", sum, len(bars.Get()))
			})
		})

		return render.Nodes{
			c.El("page", render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{
					c.El("h1", render.TextChild("Weekly report")),
					c.El("p", render.Children(func(c *render.Context) render.Nodes {
						return render.Nodes{render.BindText[string](c, total)}
					})),
				}
			})),
			c.El("page", render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{
					c.El("h2", render.TextChild("Breakdown")),
					control.Each(c, bars, func(b Bar, _ int) string { return b.Label },
						func(c *render.Context, bar lumen.Reader[Bar], _ lumen.Reader[int]) render.Nodes {
							b := lumen.UntrackedGet(bar)
							return render.Nodes{c.El("p", render.TextChild(fmt.Sprintf("%s: %d", b.Label, b.Value)))}
						}),
				}
			})),
		}
	}
}
