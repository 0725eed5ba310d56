// Package components holds the todo app's views.
//
// Dependencies between components are declared in components_hx.go,
// written by `hxview generate`.
package components

import (
	"fmt"

	"github.com/pthm/hxview"
	"github.com/pthm/hxview/lib/fragment"
)

var (
	store     TodoStore
	fragments *fragment.Store
)

// Init binds the components to their data and fragment cache. Call it
// once before serving.
func Init(s TodoStore, f *fragment.Store) {
	store = s
	fragments = f
}

var filters = []struct {
	status string
	label  string
}{
	{"", "All"},
	{string(StatusPending), "Pending"},
	{string(StatusCompleted), "Done"},
}

// Index is the home page.
var Index = hxview.Define("Index", func(c *hxview.Context) {
	status, _ := c.Attr("status").(string)
	c.Component(Layout, hxview.Attrs{"status": status}, hxview.WithContent(func(c *hxview.Context) {
		c.H1("Todos")
		c.Component(TodoList, hxview.Attrs{"status": status})
	}))
}, hxview.Namespace("todo"))

// Layout is the page shell. Its content block fills <main>.
var Layout = hxview.Define("Layout", func(c *hxview.Context) {
	c.Doctype()
	c.HTML(hxview.Attrs{"lang": "en"}, func(c *hxview.Context) {
		c.Head(func(c *hxview.Context) {
			c.Meta(hxview.Attrs{"charset": "utf-8"})
			c.Title("Todos")
			c.Link(hxview.Attrs{"rel": "stylesheet", "href": "/static/app.css"})
		})
		c.Body(func(c *hxview.Context) {
			c.Component(Sidebar, hxview.Attrs{"status": c.Attr("status")})
			c.Main(func(c *hxview.Context) { c.Content() })
		})
	})
}, hxview.Namespace("todo"))

// Sidebar shows the status filters and totals.
var Sidebar = hxview.Define("Sidebar", func(c *hxview.Context) {
	current, _ := c.Attr("status").(string)
	c.Nav(func(c *hxview.Context) {
		c.Ul(func(c *hxview.Context) {
			for _, f := range filters {
				c.Li(func(c *hxview.Context) {
					c.A(hxview.Attrs{"href": "/?status=" + f.status}, f.label).Class(active(f.status == current))
				})
			}
		})
		c.Component(Stats, nil)
	}).Class("sidebar")
}, hxview.Namespace("todo"))

// Stats summarizes progress.
var Stats = hxview.Define("Stats", func(c *hxview.Context) {
	s := store.Stats()
	c.P(fmt.Sprintf("%d of %d done", s.Completed, s.Total)).Class("stats")
}, hxview.Namespace("todo"))

// TodoList renders the todos matching the "status" attribute. Items are
// cached by ID and last update.
var TodoList = hxview.Define("TodoList", func(c *hxview.Context) {
	var status *Status
	if s, _ := c.Attr("status").(string); s != "" {
		st := Status(s)
		status = &st
	}

	todos := store.List(status)
	if len(todos) == 0 {
		c.P("Nothing to do.").Class("empty")
		return
	}
	c.Ul(func(c *hxview.Context) {
		for _, todo := range todos {
			c.Cached(fragments, TodoItem, hxview.Attrs{"todo": todo},
				hxview.WithCacheResources(hxview.Attrs{
					"id":      todo.ID,
					"updated": todo.UpdatedAt.UnixNano(),
				}))
		}
	}).Class("todos")
}, hxview.Namespace("todo"))

// TodoItem renders one todo.
var TodoItem = hxview.Define("TodoItem", func(c *hxview.Context) {
	todo := c.Attr("todo").(Todo)
	c.Li(hxview.Attrs{"id": todo.ID}, func(c *hxview.Context) {
		c.Form(hxview.Attrs{"method": "post", "action": "/todos/" + todo.ID + "/toggle"}, func(c *hxview.Context) {
			c.Button(hxview.Attrs{"type": "submit"}, toggleLabel(todo))
		})
		c.Strong(todo.Title)
		for _, tag := range todo.Tags {
			c.Component(TagBadge, hxview.Attrs{"tag": string(tag)})
		}
		if todo.Description != "" {
			c.Markdown(todo.Description)
		}
	}).Class("todo", hxview.Symbol("status_"+string(todo.Status)))
}, hxview.Namespace("todo"))

// TagBadge renders a tag label.
var TagBadge = hxview.Define("TagBadge", func(c *hxview.Context) {
	tag, _ := c.Attr("tag").(string)
	c.Span(tag).Class("tag", hxview.Symbol("tag_"+tag))
}, hxview.Namespace("todo"))

func active(on bool) any {
	if on {
		return hxview.Symbol("is_active")
	}
	return nil
}

func toggleLabel(todo Todo) string {
	if todo.IsCompleted() {
		return "Undo"
	}
	return "Done"
}
