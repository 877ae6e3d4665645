package control

import (
	"strconv"

	"github.com/vango-dev/lumen/pkg/backend"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/pool"
	"github.com/vango-dev/lumen/pkg/render"
)

// KeyFunc derives the key of an item.
type KeyFunc[T any] func(item T, index int) string

// ItemFunc builds one list item. item and index are updated in place when
// the item is reused for a new value or position.
type ItemFunc[T any] func(c *render.Context, item lumen.Reader[T], index lumen.Reader[int]) render.Nodes

// ByIndex keys items by position: components are reused by slot and
// values shift into them.
func ByIndex[T any](_ T, index int) string {
	return strconv.Itoa(index)
}

type entry[T any] struct {
	key   string
	owner *lumen.Owner
	item  *lumen.Cell[T]
	index *lumen.Cell[int]
	nodes render.Nodes
}

type list[T any] struct {
	b     backend.Backend
	owner *lumen.Owner
	live  *render.Context
	r     *render.Range
	key   KeyFunc[T]
	fn    ItemFunc[T]

	entries []*entry[T]
}

// Each renders one item per element of items and keeps the rendered items
// in step with the slice.
//
// Items whose key persists are kept, updated and moved only if they fall
// outside the longest run already in order. Items whose key disappears are
// torn down, and new keys are built and inserted at their position. A nil
// key uses ByIndex. Repeated keys are made unique by occurrence: "a",
// "a#1", "a#2".
func Each[T any](c *render.Context, items lumen.Reader[[]T], key KeyFunc[T], fn ItemFunc[T]) *render.Range {
	if key == nil {
		key = ByIndex[T]
	}
	l := &list[T]{
		b:     c.Backend(),
		owner: c.Owner(),
		live:  c.Detached(),
		key:   key,
		fn:    fn,
	}
	l.r = c.OpenRange("each")

	initial := lumen.UntrackedGet(items)
	keysBuf := pool.Strings.Acquire()
	keys := l.keysOf(initial, keysBuf)
	l.entries = make([]*entry[T], len(keys))
	for i, k := range keys {
		l.entries[i] = l.build(c, k, initial[i], i)
	}
	pool.Strings.Release(keysBuf)

	c.CloseRange(l.r, "each", l.content())

	first := true
	c.Effect(func() {
		next := items.Get()
		if first {
			first = false
			return
		}
		lumen.Untracked(func() { l.reconcile(next) })
	})
	return l.r
}

// Keys returns the unique keys Each derives for items.
func Keys[T any](items []T, key KeyFunc[T]) []string {
	if key == nil {
		key = ByIndex[T]
	}
	l := &list[T]{key: key}
	var buf []string
	return l.keysOf(items, &buf)
}

func (l *list[T]) keysOf(items []T, dst *[]string) []string {
	out := (*dst)[:0]
	count := make(map[string]int, len(items))
	used := make(map[string]bool, len(items))
	for i, it := range items {
		base := l.key(it, i)
		n := count[base]
		k := base
		if n > 0 {
			k = base + "#" + strconv.Itoa(n)
		}
		for used[k] {
			n++
			k = base + "#" + strconv.Itoa(n)
		}
		count[base] = n + 1
		used[k] = true
		out = append(out, k)
	}
	*dst = out
	return out
}

func (l *list[T]) build(ctx *render.Context, key string, v T, i int) *entry[T] {
	e := &entry[T]{
		key:   key,
		owner: lumen.NewTaggedOwner(l.owner, "each:"+key),
	}
	ec := ctx.WithOwner(e.owner)
	lumen.Untracked(func() {
		ec.Run(func() {
			e.item = lumen.NewCell(v)
			e.index = lumen.NewCell(i)
			e.nodes = l.fn(ec, e.item, e.index)
		})
	})
	return e
}

func (l *list[T]) content() render.Nodes {
	var out render.Nodes
	for _, e := range l.entries {
		out = append(out, e.nodes...)
	}
	return out
}

func (l *list[T]) reconcile(items []T) {
	keysBuf := pool.Strings.Acquire()
	defer pool.Strings.Release(keysBuf)
	keys := l.keysOf(items, keysBuf)

	old := l.entries
	oldPos := make(map[string]int, len(old))
	for i, e := range old {
		oldPos[e.key] = i
	}

	srcBuf := pool.Ints.Acquire()
	keepBuf := pool.Ints.Acquire()
	defer pool.Ints.Release(srcBuf)
	defer pool.Ints.Release(keepBuf)
	src := sized(srcBuf, len(keys), -1)
	keep := sized(keepBuf, len(keys), 0)

	next := make([]*entry[T], len(keys))
	reused := make([]bool, len(old))
	for i, k := range keys {
		p, ok := oldPos[k]
		if !ok {
			continue
		}
		e := old[p]
		reused[p] = true
		next[i] = e
		src[i] = p
		e.item.Set(items[i])
		e.index.Set(i)
	}

	for p, e := range old {
		if !reused[p] {
			teardown(e.owner)
			render.DestroyAll(l.b, e.nodes)
		}
	}

	markLIS(src, keep)

	parent := l.b.Parent(l.r.End)
	anchor := l.r.End
	for i := len(keys) - 1; i >= 0; i-- {
		e := next[i]
		switch {
		case e == nil:
			e = l.build(l.live, keys[i], items[i], i)
			next[i] = e
			if parent != nil {
				render.InsertAll(l.b, parent, e.nodes, anchor)
			}
		case keep[i] == 0 && parent != nil:
			render.InsertAll(l.b, parent, e.nodes, anchor)
		}
		if f := render.First(e.nodes); f != nil {
			anchor = f
		}
	}

	l.entries = next
	l.r.SetContent(l.content())
}
