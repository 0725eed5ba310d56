package hxview

import (
	"github.com/cockroachdb/errors"
)

// Context is the builder a template writes through. It carries the
// component being rendered and the container receiving new nodes.
//
// Nested blocks get a derived Context with a different target; the outer
// Context is never modified, so an early return or panic inside a block
// cannot leave the wrong target in place.
//
// The first error raised by a builder is kept for the whole render pass
// and returned by Component.Call. After it, builders do nothing.
type Context struct {
	comp   *Component
	target *Children
	state  *renderState
}

type renderState struct {
	err error
}

func newContext(comp *Component, target *Children) *Context {
	return &Context{comp: comp, target: target, state: &renderState{}}
}

// Owner returns the component whose template is running.
func (c *Context) Owner() *Component {
	return c.comp
}

// Err returns the first error of the render pass.
func (c *Context) Err() error {
	return c.state.err
}

func (c *Context) fail(err error) {
	if c.state.err == nil {
		c.state.err = err
	}
}

func (c *Context) failed() bool {
	return c.state.err != nil
}

func (c *Context) append(n Node) {
	c.target.Append(n)
}

func (c *Context) registry() *Registry {
	if c.comp != nil && c.comp.class != nil {
		return c.comp.class.registry
	}
	return DefaultRegistry
}

// Attr returns an attribute of the rendering component.
func (c *Context) Attr(name string) any {
	if c.comp == nil {
		return nil
	}
	return c.comp.attrs[name]
}

// Text appends an escaped text node.
func (c *Context) Text(v any) {
	if c.failed() {
		return
	}
	c.append(Text{Value: v})
}

// Raw appends markup without escaping.
func (c *Context) Raw(markup string) {
	if c.failed() {
		return
	}
	c.append(Raw(markup))
}

// Node appends an arbitrary node.
func (c *Context) Node(n Node) {
	if c.failed() || n == nil {
		return
	}
	c.append(n)
}

// RenderBlock runs fn with target as the append target. The receiver keeps
// its own target.
func (c *Context) RenderBlock(target Container, fn TemplateFunc) {
	if fn == nil || c.failed() {
		return
	}
	fn(&Context{comp: c.comp, target: target.ChildNodes(), state: c.state})
}

// Content runs the component's content block against the current target.
// The block belongs to the code that instantiated the component, so inside
// it Attr and Content refer to the parent component.
func (c *Context) Content() {
	if c.failed() || c.comp == nil || c.comp.content == nil {
		return
	}
	owner := c.comp.parent
	if owner == nil {
		owner = c.comp
	}
	c.comp.content(&Context{comp: owner, target: c.target, state: c.state})
}

// Component instantiates klass, which must be a *Class, with the current
// component as parent and appends it to the target. It renders when the
// tree is rendered.
func (c *Context) Component(klass any, attrs Attrs, opts ...Option) {
	if c.failed() {
		return
	}
	k, ok := klass.(*Class)
	if !ok || k == nil {
		c.fail(errorNotComponent(klass))
		return
	}
	opts = append(opts, withParent(c.comp))
	c.append(k.New(attrs, opts...))
}

// Partial runs a named partial found on the class or its ancestors.
func (c *Context) Partial(name string) {
	if c.failed() {
		return
	}
	if c.comp == nil {
		c.fail(errors.Wrapf(ErrUnknownPartial, "%q outside a component", name))
		return
	}
	fn, ok := c.comp.class.partial(name)
	if !ok {
		c.fail(errors.Wrapf(ErrUnknownPartial, "%q on %s", name, c.comp.class.FullName()))
		return
	}
	fn(c)
}

// Doctype emits <!DOCTYPE html> through the framework Helpers module.
func (c *Context) Doctype() {
	c.Partial("doctype")
}

// Template appends a <template> element. Inside a running template body
// the call goes through the component's re-entrancy guard, so the body is
// never executed again.
func (c *Context) Template(args ...any) *ClassCollector {
	if c.comp == nil || !c.comp.rendering {
		return c.Element("template", args...)
	}
	return c.comp.template(c, args...)
}

// Element appends the element called name.
//
// args may hold any number of Attrs, one literal content value and one
// block (a TemplateFunc or func(*Context)). Content and a block together
// are an error, as is either on a void element. With a block, the block
// builds the element's children; with content, the element gets a single
// text child. The returned collector chains extra classes onto the
// element.
func (c *Context) Element(name string, args ...any) *ClassCollector {
	if c.failed() {
		return &ClassCollector{}
	}
	el, ok := c.registry().lookupElement(name)
	if !ok {
		c.fail(errors.Wrapf(ErrUnknownElement, "%q", name))
		return &ClassCollector{}
	}

	parsed, err := parseElementArgs(name, args)
	if err != nil {
		c.fail(err)
		return &ClassCollector{}
	}
	if el.kind == voidElement && (parsed.hasContent || parsed.block != nil) {
		c.fail(errors.Wrapf(ErrVoidContent, "<%s>", el.tag))
		return &ClassCollector{}
	}

	tag := &Tag{name: el.tag, void: el.kind == voidElement, attributes: Attrs{}}
	for _, a := range parsed.attrs {
		if err := tag.SetAttributes(a); err != nil {
			c.fail(err)
			return &ClassCollector{}
		}
	}
	c.append(tag)

	switch {
	case parsed.block != nil:
		c.RenderBlock(tag, parsed.block)
	case parsed.hasContent:
		tag.children.Append(Text{Value: parsed.content})
	}
	return &ClassCollector{ctx: c, tag: tag}
}

func errorNotComponent(v any) error {
	return errors.Wrapf(ErrNotComponent, "%T", v)
}

type elementArgs struct {
	attrs      []Attrs
	content    any
	hasContent bool
	block      TemplateFunc
}

func parseElementArgs(name string, args []any) (elementArgs, error) {
	var p elementArgs
	for _, arg := range args {
		switch x := arg.(type) {
		case nil:
		case Attrs:
			p.attrs = append(p.attrs, x)
		case map[string]any:
			p.attrs = append(p.attrs, Attrs(x))
		case TemplateFunc, func(*Context):
			if p.block != nil {
				return p, errors.Wrapf(ErrBadArgument, "<%s> given two blocks", name)
			}
			if fn, ok := x.(TemplateFunc); ok {
				p.block = fn
			} else {
				p.block = x.(func(*Context))
			}
		default:
			if p.hasContent {
				return p, errors.Wrapf(ErrBadArgument, "<%s> given two content values", name)
			}
			p.content, p.hasContent = x, true
		}
	}
	if p.hasContent && p.block != nil {
		return p, errors.Wrapf(ErrContentAndBlock, "<%s>", name)
	}
	return p, nil
}
