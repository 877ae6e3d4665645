package demo

import (
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/lumen/pkg/control"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/render"
)

// Todo is one entry of a todo list.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// TodoList is the state behind the Todos component.
type TodoList struct {
	Items  *lumen.Cell[[]Todo]
	nextID atomic.Int64
}

// NewTodoList creates a list holding titles.
func NewTodoList(titles ...string) *TodoList {
	l := &TodoList{Items: lumen.NewCell[[]Todo](nil, lumen.WithTag[[]Todo]("TodoList.items"))}
	items := make([]Todo, 0, len(titles))
	for _, t := range titles {
		items = append(items, Todo{ID: l.id(), Title: t})
	}
	l.Items.Set(items)
	return l
}

func (l *TodoList) id() int {
	return int(l.nextID.Add(1))
}

// Add appends a new entry.
func (l *TodoList) Add(title string) int {
	id := l.id()
	l.Items.Update(func(items []Todo) []Todo {
		return append(append([]Todo(nil), items...), Todo{ID: id, Title: title})
	})
	return id
}

// Toggle flips the Done flag of id.
func (l *TodoList) Toggle(id int) {
	l.Items.Update(func(items []Todo) []Todo {
		out := append([]Todo(nil), items...)
		for i := range out {
			if out[i].ID == id {
				out[i].Done = !out[i].Done
			}
		}
		return out
	})
}

// Remove drops id.
func (l *TodoList) Remove(id int) {
	l.Items.Update(func(items []Todo) []Todo {
		out := make([]Todo, 0, len(items))
		for _, t := range items {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
}

// Rotate moves the last entry to the front.
func (l *TodoList) Rotate() {
	l.Items.Update(func(items []Todo) []Todo {
		if len(items) < 2 {
			return items
		}
		out := make([]Todo, 0, len(items))
		out = append(out, items[len(items)-1])
		return append(out, items[:len(items)-1]...)
	})
}

func todoKey(t Todo, _ int) string {
	return strconv.Itoa(t.ID)
}

// Todos renders the list keyed by id with a remaining-count footer.
func Todos(list *TodoList) render.Component {
	return func(c *render.Context) render.Nodes {
		var remaining *lumen.MergedCell[int]
		c.Run(func() {
			remaining = lumen.NewMergedTagged("Todos.remaining", func() int {
				n := 0
				for _, t := range list.Items.Get() {
					if !t.Done {
						n++
					}
				}
				return n
			})
		})

		return render.Nodes{
			c.El("ul", render.Attr("class", "todos"), render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{control.Each(c, list.Items, todoKey, todoItem)}
			})),
			c.El("p", render.Attr("class", "remaining"), render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{render.BindText[int](c, remaining), c.Text(" left")}
			})),
			control.If[[]Todo](c, list.Items, nil, func(c *render.Context) render.Nodes {
				return render.Nodes{c.El("p", render.Attr("class", "empty"), render.TextChild("Nothing to do"))}
			}),
		}
	}
}

func todoItem(c *render.Context, item lumen.Reader[Todo], index lumen.Reader[int]) render.Nodes {
	var done *lumen.MergedCell[any]
	var title *lumen.MergedCell[string]
	var checked *lumen.MergedCell[bool]
	c.Run(func() {
		done = lumen.NewMerged(func() any {
			if item.Get().Done {
				return "done"
			}
			return nil
		})
		checked = lumen.NewMerged(func() bool { return item.Get().Done })
		title = lumen.NewMerged(func() string { return item.Get().Title })
	})

	return render.Nodes{
		c.El("li",
			render.BindAttr[any]("class", done),
			render.BindAttr[int]("data-index", index),
			render.Children(func(c *render.Context) render.Nodes {
				return render.Nodes{
					c.El("input", render.Attr("type", "checkbox"), render.BindProp[bool]("checked", checked)),
					render.BindText[string](c, title),
				}
			}),
		),
	}
}

// StaticTodos renders a fresh list holding titles.
func StaticTodos(titles ...string) render.Component {
	return func(c *render.Context) render.Nodes {
		var list *TodoList
		c.Run(func() { list = NewTodoList(titles...) })
		return Todos(list)(c)
	}
}
