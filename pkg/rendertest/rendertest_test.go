package rendertest

import (
	"testing"

	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

func label(text *lumen.Cell[string]) render.Component {
	return func(c *render.Context) render.Nodes {
		return render.Nodes{c.El("label", render.Children(func(c *render.Context) render.Nodes {
			return render.Nodes{render.BindText[string](c, text)}
		}))}
	}
}

func TestMount(t *testing.T) {
	text := lumen.NewCell("a")
	h := Mount(t, label(text))
	h.ExpectHTML("<label>a</label>")

	text.Set("b")
	h.ExpectContains(">b<")
	h.ExpectNotContains(">a<")
}

func TestHydrate(t *testing.T) {
	text := lumen.NewCell("x")
	h := Hydrate(t, label(text))
	h.ExpectClean()
	if h.Report.Claimed() == 0 {
		t.Error("expected claimed nodes")
	}

	text.Set("y")
	h.ExpectHTML("<label>y</label>")
}

func TestCleanupDestroysOwner(t *testing.T) {
	var h *Harness
	t.Run("inner", func(t *testing.T) {
		h = Mount(t, label(lumen.NewCell("z")))
	})
	if !h.Owner.IsDestroyed() {
		t.Error("expected owner destroyed after the subtest")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("ab", 3); got != "ab" {
		t.Errorf("unexpected %q", got)
	}
}
