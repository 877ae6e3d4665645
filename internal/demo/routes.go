package demo

import (
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/mathml"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
	"github.com/vango-dev/lumen/pkg/ssr"
)

// Routes returns the HTML pages of the demo site. Every render builds
// fresh state.
func Routes() []ssr.Route {
	return []ssr.Route{
		{Path: "/", Title: "Counter", Component: StaticCounter(1)},
		{Path: "/todos", Title: "Todos", Component: StaticTodos("write docs", "ship release", "answer issues")},
		{Path: "/formula", Title: "Formula", Component: Formula(), Backend: func() backend.Backend { return mathml.New() }},
	}
}

// Lookup returns the route registered for path.
func Lookup(path string) (ssr.Route, bool) {
	for _, r := range Routes() {
		if r.Path == path {
			return r, true
		}
	}
	return ssr.Route{}, false
}

// ChartScene returns a Chart over DefaultBars.
func ChartScene() render.Component {
	return func(c *render.Context) render.Nodes {
		var bars *lumen.Cell[[]Bar]
		c.Run(func() { bars = lumen.NewCell(DefaultBars()) })
		return Chart(bars)(c)
	}
}

// WeeklyReport returns a Report over DefaultBars.
func WeeklyReport() render.Component {
	return func(c *render.Context) render.Nodes {
		return Report(lumen.Static(DefaultBars()))(c)
	}
}
