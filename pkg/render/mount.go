package render

import (
	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/hydrate"
	"github.com/vango-dev/lumen/pkg/lumen"
)

// Mount builds comp in create mode under owner and appends the result to
// root.
func Mount(b backend.Backend, root backend.Node, owner *lumen.Owner, comp Component) Nodes {
	c := NewContext(b, owner)
	var nodes Nodes
	c.Run(func() { nodes = comp(c) })
	InsertAll(b, root, nodes, nil)
	return nodes
}

// Hydrate builds comp against the existing children of root, claiming
// them in order. Mismatches are recovered and recorded in report. The only
// error is a backend that cannot walk its nodes.
func Hydrate(b backend.Backend, root backend.Node, owner *lumen.Owner, comp Component, report *hydrate.Report) (Nodes, error) {
	cur, err := hydrate.NewCursor(b, root, report)
	if err != nil {
		return nil, err
	}
	c := NewHydrateContext(b, owner, cur)
	var nodes Nodes
	c.Run(func() { nodes = comp(c) })
	cur.Finish()
	return nodes, nil
}
