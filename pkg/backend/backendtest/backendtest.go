// Package backendtest holds the contract checks shared by every backend.
package backendtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/backend"
)

// Target is a backend that can also enumerate its nodes.
type Target interface {
	backend.Backend
	backend.Walker
}

// Run checks the operation contract against a fresh backend from newFn.
// container is the tag used for parent elements.
func Run(t *testing.T, newFn func() Target, container string) {
	t.Helper()

	t.Run("InsertAppendAndAnchor", func(t *testing.T) {
		b := newFn()
		parent := b.Element(container)
		first := b.Text("a")
		last := b.Text("c")
		b.Insert(parent, first, nil)
		b.Insert(parent, last, nil)
		b.Insert(parent, b.Text("b"), last)

		require.Equal(t, []string{"a", "b", "c"}, texts(b, parent))
		require.Equal(t, parent, b.Parent(first))
	})

	t.Run("InsertMovesAttachedNode", func(t *testing.T) {
		b := newFn()
		p1 := b.Element(container)
		p2 := b.Element(container)
		n := b.Text("x")
		b.Insert(p1, n, nil)
		b.Insert(p2, n, nil)

		require.Empty(t, b.Children(p1))
		require.Len(t, b.Children(p2), 1)
		require.Equal(t, p2, b.Parent(n))
	})

	t.Run("InsertBeforeItself", func(t *testing.T) {
		b := newFn()
		p := b.Element(container)
		n := b.Text("x")
		b.Insert(p, n, nil)
		b.Insert(p, n, n)
		require.Equal(t, []string{"x"}, texts(b, p))
	})

	t.Run("FragmentMovesChildren", func(t *testing.T) {
		b := newFn()
		p := b.Element(container)
		end := b.Comment("end")
		b.Insert(p, end, nil)

		frag := b.Fragment()
		b.Insert(frag, b.Text("1"), nil)
		b.Insert(frag, b.Text("2"), nil)
		b.Insert(p, frag, end)

		require.Equal(t, []string{"1", "2", "end"}, texts(b, p))
		require.Empty(t, b.Children(frag))
	})

	t.Run("DestroyIsIdempotent", func(t *testing.T) {
		b := newFn()
		p := b.Element(container)
		n := b.Element(container)
		b.Insert(p, n, nil)

		b.Destroy(n)
		require.Nil(t, b.Parent(n))
		require.Empty(t, b.Children(p))

		require.NotPanics(t, func() {
			b.Destroy(n)
			b.Destroy(b.Text("never attached"))
			b.ClearChildren(n)
		})
	})

	t.Run("ClearChildren", func(t *testing.T) {
		b := newFn()
		p := b.Element(container)
		for _, s := range []string{"a", "b", "c"} {
			b.Insert(p, b.Text(s), nil)
		}
		b.ClearChildren(p)
		require.Empty(t, b.Children(p))
	})

	t.Run("TextContentProp", func(t *testing.T) {
		b := newFn()
		n := b.Text("before")
		b.Prop(n, backend.PropTextContent, 5)
		require.Equal(t, "5", b.TextContent(n))
	})

	t.Run("KindsAndIdentity", func(t *testing.T) {
		b := newFn()
		el := b.Element(container)
		require.Equal(t, backend.KindElement, b.Kind(el))
		require.Equal(t, container, b.TagName(el))
		require.Equal(t, backend.KindText, b.Kind(b.Text("t")))
		require.Equal(t, backend.KindComment, b.Kind(b.Comment("c")))
		require.Equal(t, backend.KindFragment, b.Kind(b.Fragment()))

		require.True(t, b.IsNode(el))
		require.False(t, b.IsNode("not a node"))
		require.False(t, b.IsNode(nil))
		require.Nil(t, b.Parent(el))
	})
}

func texts(b Target, parent backend.Node) []string {
	var out []string
	for _, c := range b.Children(parent) {
		out = append(out, b.TextContent(c))
	}
	return out
}
