// Package render constructs component trees against a backend.
//
// A Component is a function that builds nodes through a Context. The same
// component code runs in two modes:
//
//   - create mode, where every node is new and is inserted by its parent;
//   - hydrate mode, where each node claims the next server-rendered node
//     through a hydrate.Cursor and reactive bindings attach to it.
//
// Children are always built through the Children option so that a parent
// element is created or claimed before its children are.
//
//	func Counter(count lumen.Reader[int]) render.Component {
//	    return func(c *render.Context) render.Nodes {
//	        return render.Nodes{
//	            c.El("span",
//	                render.Attr("class", "count"),
//	                render.Children(func(c *render.Context) render.Nodes {
//	                    return render.Nodes{render.BindText(c, count)}
//	                }),
//	            ),
//	        }
//	    }
//	}
//
// # Ranges
//
// Control-flow primitives return a *Range among their nodes. A range is a
// pair of comment anchors plus its current content. Flatten expands ranges
// recursively, so moving or removing a subtree always acts on the nodes
// currently rendered inside it.
package render
