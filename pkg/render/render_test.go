package render

import (
	"testing"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/backend/dom"
	"github.com/vango-dev/lumen/pkg/lumen"
)

func mount(t *testing.T, comp Component) (*dom.Backend, backend.Node, *lumen.Owner) {
	t.Helper()
	b := dom.New()
	root := b.Fragment()
	owner := lumen.NewOwner(nil)
	Mount(b, root, owner, comp)
	return b, root, owner
}

func TestMountCreatesTree(t *testing.T) {
	b, root, _ := mount(t, func(c *Context) Nodes {
		return Nodes{
			c.El("div",
				Attr("class", "box"),
				Children(func(c *Context) Nodes {
					return Nodes{
						c.El("b", TextChild("bold")),
						c.Text(" and plain"),
					}
				}),
			),
			c.Comment("end"),
		}
	})

	want := `<div class="box"><b>bold</b> and plain</div><!--end-->`
	if got := b.String(root); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBindTextAndAttr(t *testing.T) {
	count := lumen.NewCell(1)
	title := lumen.NewCell[any]("one")

	b, root, owner := mount(t, func(c *Context) Nodes {
		return Nodes{
			c.El("span",
				BindAttr[any]("title", title),
				Children(func(c *Context) Nodes {
					return Nodes{BindText[int](c, count)}
				}),
			),
		}
	})

	count.Set(2)
	title.Set(nil)
	if got := b.String(root); got != "<span>2</span>" {
		t.Errorf("unexpected markup %s", got)
	}

	lumen.RunDestructors(owner)
	count.Set(3)
	if got := b.String(root); got != "<span>2</span>" {
		t.Errorf("bindings should stop after teardown, got %s", got)
	}
}

func TestBindProp(t *testing.T) {
	value := lumen.NewCell("a")
	var input backend.Node

	b, root, _ := mount(t, func(c *Context) Nodes {
		return Nodes{c.El("input", Ref(&input), BindProp[string]("value", value))}
	})

	value.Set("b")
	if got, _ := b.PropValue(input, "value"); got != "b" {
		t.Errorf("expected prop b, got %v", got)
	}
	if got := b.String(root); got != `<input value="b"/>` {
		t.Errorf("unexpected markup %s", got)
	}
}

func TestRangeReplace(t *testing.T) {
	var r *Range
	b, root, _ := mount(t, func(c *Context) Nodes {
		r = c.OpenRange("slot")
		c.CloseRange(r, "slot", Nodes{c.Text("old")})
		return Nodes{c.El("p", Children(func(c *Context) Nodes { return Nodes{r} }))}
	})

	if got := b.String(root); got != "<p><!--slot-->old<!--/slot--></p>" {
		t.Fatalf("unexpected markup %s", got)
	}

	r.Replace(b, Nodes{b.Text("new"), b.Element("br")})
	if got := b.String(root); got != "<p><!--slot-->new<br/><!--/slot--></p>" {
		t.Errorf("unexpected markup %s", got)
	}

	r.Clear(b)
	if got := b.String(root); got != "<p><!--slot--><!--/slot--></p>" {
		t.Errorf("unexpected markup %s", got)
	}
}

func TestFlattenNestedRanges(t *testing.T) {
	b := dom.New()
	inner := &Range{Start: b.Comment("i"), End: b.Comment("/i")}
	inner.SetContent(Nodes{b.Text("x")})
	outer := &Range{Start: b.Comment("o"), End: b.Comment("/o")}
	outer.SetContent(Nodes{inner, nil, b.Text("y")})

	flat := Flatten(Nodes{outer})
	if len(flat) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(flat))
	}
	if First(Nodes{nil, outer}) != outer.Start {
		t.Error("First should return the outer start anchor")
	}

	// Changing the inner content is visible through the outer range.
	inner.SetContent(nil)
	if len(Flatten(Nodes{outer})) != 5 {
		t.Error("Flatten should read live content")
	}
}

func TestComponentGetsChildOwner(t *testing.T) {
	var inner *lumen.Owner
	_, _, owner := mount(t, func(c *Context) Nodes {
		return c.Component(func(c *Context) Nodes {
			inner = c.Owner()
			return Nodes{c.Text("x")}
		})
	})

	if inner == owner || inner.Parent() != owner {
		t.Error("component should run under a child owner")
	}
	lumen.RunDestructors(owner)
	if !inner.IsDestroyed() {
		t.Error("child owner should be torn down with its parent")
	}
}

func TestCreateModeIsNotHydrating(t *testing.T) {
	c := NewContext(dom.New(), nil)
	if c.Hydrating() || c.Detached().Hydrating() {
		t.Error("create-mode context reports hydrating")
	}
}
