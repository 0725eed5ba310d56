package hxview

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/pthm/hxview/lib/fingerprint"
)

// Component is an instance of a component class: attributes, an optional
// content block and the cache policy for its instance state.
//
// A Component is a Node, so it can be rendered as a child of another
// component. Rendering runs the class template once per call and builds a
// fresh child list each time.
//
//	card := Card.New(hxview.Attrs{"title": "Hello"},
//	    hxview.WithContent(func(c *hxview.Context) { c.P("Body") }),
//	    hxview.WithCache(true))
//	buf, err := card.Call(nil)
type Component struct {
	class    *Class
	attrs    Attrs
	content  TemplateFunc
	cacheAll bool
	cacheSet Attrs
	parent   *Component

	children  Children
	rendering bool

	key     atomic.Pointer[fingerprint.Key]
	version atomic.Pointer[fingerprint.Key]
}

// Option configures a Component.
type Option func(*Component)

// WithContent sets the deferred content block rendered by Context.Content.
func WithContent(fn TemplateFunc) Option {
	return func(c *Component) { c.content = fn }
}

// WithCache selects whether the instance attributes take part in the
// instance cache key. When false (the default), instances of a class with
// the same content block share a key whatever their attributes.
func WithCache(all bool) Option {
	return func(c *Component) {
		c.cacheAll = all
		c.cacheSet = nil
	}
}

// WithCacheResources makes exactly resources take part in the instance
// cache key.
func WithCacheResources(resources Attrs) Option {
	return func(c *Component) {
		c.cacheAll = false
		c.cacheSet = copyAttrs(resources)
		if c.cacheSet == nil {
			c.cacheSet = Attrs{}
		}
	}
}

func withParent(p *Component) Option {
	return func(c *Component) { c.parent = p }
}

// New instantiates the class. Attribute names starting with "_" are
// reserved for internal state: they stay readable through Context.Attr but
// never take part in a cache key.
func (k *Class) New(attrs Attrs, opts ...Option) *Component {
	c := &Component{class: k, attrs: copyAttrs(attrs)}
	if c.attrs == nil {
		c.attrs = Attrs{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Class returns the component's class.
func (c *Component) Class() *Class {
	return c.class
}

// Attrs returns a copy of the instance attributes.
func (c *Component) Attrs() Attrs {
	return copyAttrs(c.attrs)
}

// Parent returns the component that rendered this one, or nil.
func (c *Component) Parent() *Component {
	return c.parent
}

// ChildNodes implements Container. It holds the tree built by the most
// recent render.
func (c *Component) ChildNodes() *Children {
	return &c.children
}

// Call renders the component into buf and returns it. A nil buf gets a new
// buffer. On error buf holds whatever was rendered before the failure.
func (c *Component) Call(buf *bytes.Buffer) (*bytes.Buffer, error) {
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	// Re-entered from its own template, the call renders only the
	// placeholder and leaves the tree being built alone.
	children := new(Children)
	if !c.rendering {
		c.children = Children{}
		children = &c.children
	}
	ctx := newContext(c, children)
	c.template(ctx)
	if err := children.Render(buf); err != nil {
		return buf, err
	}
	return buf, ctx.Err()
}

// Render implements Node.
func (c *Component) Render(buf *bytes.Buffer) error {
	_, err := c.Call(buf)
	return err
}

// String renders the component and returns the markup, or "" on error.
func (c *Component) String() string {
	buf, err := c.Call(nil)
	if err != nil {
		return ""
	}
	return buf.String()
}

// Templ adapts the component to templ.Component so it can be used inside
// templ templates and handlers.
func (c *Component) Templ() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		buf, err := c.Call(nil)
		if err != nil {
			return err
		}
		_, err = w.Write(buf.Bytes())
		return err
	})
}

// template runs the class template. Called again while the body is still
// running, it emits a <template> element with args instead of re-entering
// the body.
func (c *Component) template(ctx *Context, args ...any) *ClassCollector {
	if c.rendering {
		return ctx.Element("template", args...)
	}
	c.rendering = true
	defer func() { c.rendering = false }()
	if tmpl := c.class.templateFunc(); tmpl != nil {
		tmpl(ctx)
	}
	return &ClassCollector{ctx: ctx}
}

// assigns returns the non-reserved attributes.
func (c *Component) assigns() Attrs {
	out := make(Attrs, len(c.attrs))
	for k, v := range c.attrs {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

func copyAttrs(a Attrs) Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
