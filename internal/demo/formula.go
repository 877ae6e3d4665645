package demo

import (
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/render"
)

// Formula renders the quadratic formula in MathML. It targets the mathml
// backend.
func Formula() render.Component {
	return func(c *render.Context) render.Nodes {
		return render.Nodes{
			group(c, "math", []render.Option{render.Attr("display", "block")},
				leaf("mi", "x"),
				leaf("mo", "="),
				nest("mfrac",
					nest("mrow",
						leaf("mo", "-"),
						leaf("mi", "b"),
						leaf("mo", "±"),
						nest("msqrt",
							nest("msup", leaf("mi", "b"), leaf("mn", "2")),
							leaf("mo", "-"),
							leaf("mn", "4"),
							leaf("mi", "a"),
							leaf("mi", "c"),
						),
					),
					nest("mrow", leaf("mn", "2"), leaf("mi", "a")),
				),
			),
		}
	}
}

type builder func(c *render.Context) backend.Node

func leaf(tag, text string) builder {
	return func(c *render.Context) backend.Node {
		return c.El(tag, render.TextChild(text))
	}
}

func nest(tag string, children ...builder) builder {
	return func(c *render.Context) backend.Node {
		return group(c, tag, nil, children...)
	}
}

func group(c *render.Context, tag string, opts []render.Option, children ...builder) backend.Node {
	opts = append(opts, render.Children(func(c *render.Context) render.Nodes {
		out := make(render.Nodes, 0, len(children))
		for _, b := range children {
			out = append(out, b(c))
		}
		return out
	}))
	return c.El(tag, opts...)
}
