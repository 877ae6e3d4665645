package control

import (
	"context"

	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// If renders then while cond is truthy and otherwise (which may be nil)
// while it is not. The branch is rebuilt only when the truthiness flips;
// a change between two truthy values keeps the rendered branch.
//
// On a flip the old branch's owner is torn down, the nodes between the
// anchors are removed, and the new branch is built and inserted before the
// end anchor.
func If[T any](c *render.Context, cond lumen.Reader[T], then, otherwise render.Component) *render.Range {
	b := c.Backend()
	r := c.OpenRange("if")

	state := Truthy(lumen.UntrackedGet(cond))
	var branch *lumen.Owner

	build := func(ctx *render.Context, truthy bool) render.Nodes {
		comp := otherwise
		if truthy {
			comp = then
		}
		if comp == nil {
			branch = nil
			return nil
		}
		branch = lumen.NewTaggedOwner(c.Owner(), "if")
		bc := ctx.WithOwner(branch)
		var nodes render.Nodes
		lumen.Untracked(func() {
			bc.Run(func() { nodes = comp(bc) })
		})
		return nodes
	}

	c.CloseRange(r, "if", build(c, state))

	live := c.Detached()
	c.Effect(func() {
		next := Truthy(cond.Get())
		if next == state {
			return
		}
		state = next

		teardown(branch)
		r.Clear(b)
		r.Replace(b, build(live, next))
	})
	return r
}

// teardown destroys o. Destructor failures are logged once the
// asynchronous destructors have finished, since an effect has no caller to
// return them to. Callers detach the owner's nodes right away: an update
// never waits, so async destructors of a branch or item run against
// detached nodes. Only App.Unmount keeps nodes attached until they finish.
func teardown(o *lumen.Owner) {
	if o == nil {
		return
	}
	td := lumen.RunDestructors(o)
	go func() {
		if err := td.Wait(context.Background()); err != nil {
			lumen.Logger().Error("control: teardown failed", "owner", o.ID(), "error", err)
		}
	}()
}
