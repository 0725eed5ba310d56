package hxview

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

type elementKind uint8

const (
	standardElement elementKind = iota + 1
	voidElement
)

type element struct {
	tag  string
	kind elementKind
}

// elements is the HTML element set the builders know about.
var elements = func() map[string]element {
	standard := []string{
		"a", "abbr", "address", "article", "aside", "audio", "b", "bdi", "bdo",
		"blockquote", "body", "button", "canvas", "caption", "cite", "code",
		"colgroup", "data", "datalist", "dd", "del", "details", "dfn", "dialog",
		"div", "dl", "dt", "em", "fieldset", "figcaption", "figure", "footer",
		"form", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup",
		"html", "i", "iframe", "ins", "kbd", "label", "legend", "li", "main",
		"map", "mark", "menu", "meter", "nav", "noscript", "object", "ol",
		"optgroup", "option", "output", "p", "picture", "pre", "progress", "q",
		"rp", "rt", "ruby", "s", "samp", "script", "section", "select", "slot",
		"small", "span", "strong", "style", "sub", "summary", "sup", "svg",
		"table", "tbody", "td", "template", "textarea", "tfoot", "th", "thead",
		"time", "title", "tr", "u", "ul", "var", "video",
	}
	void := []string{
		"area", "base", "br", "col", "embed", "hr", "img", "input", "link",
		"meta", "param", "source", "track", "wbr",
	}

	m := make(map[string]element, len(standard)+len(void))
	for _, name := range standard {
		m[name] = element{tag: name, kind: standardElement}
	}
	for _, name := range void {
		m[name] = element{tag: name, kind: voidElement}
	}
	return m
}()

var symbolPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RegisterElement adds custom standard elements. Names must be symbols
// (lowercase letters, digits and underscores, starting with a letter);
// underscores become dashes in the emitted tag, so "my_widget" renders
// as <my-widget>.
func (r *Registry) RegisterElement(names ...string) error {
	for _, name := range names {
		if !symbolPattern.MatchString(name) {
			return errors.Wrapf(ErrElementName, "%q", name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.elements[name] = element{tag: strings.ReplaceAll(name, "_", "-"), kind: standardElement}
	}
	return nil
}

// RegisterElement adds custom elements to DefaultRegistry.
func RegisterElement(names ...string) error {
	return DefaultRegistry.RegisterElement(names...)
}

func (r *Registry) lookupElement(name string) (element, bool) {
	if e, ok := elements[name]; ok {
		return e, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.elements[name]
	return e, ok
}

// Builders for common elements. Anything else goes through Element.

func (c *Context) A(args ...any) *ClassCollector       { return c.Element("a", args...) }
func (c *Context) Article(args ...any) *ClassCollector { return c.Element("article", args...) }
func (c *Context) Body(args ...any) *ClassCollector    { return c.Element("body", args...) }
func (c *Context) Button(args ...any) *ClassCollector  { return c.Element("button", args...) }
func (c *Context) Div(args ...any) *ClassCollector     { return c.Element("div", args...) }
func (c *Context) Footer(args ...any) *ClassCollector  { return c.Element("footer", args...) }
func (c *Context) Form(args ...any) *ClassCollector    { return c.Element("form", args...) }
func (c *Context) H1(args ...any) *ClassCollector      { return c.Element("h1", args...) }
func (c *Context) H2(args ...any) *ClassCollector      { return c.Element("h2", args...) }
func (c *Context) H3(args ...any) *ClassCollector      { return c.Element("h3", args...) }
func (c *Context) Head(args ...any) *ClassCollector    { return c.Element("head", args...) }
func (c *Context) Header(args ...any) *ClassCollector  { return c.Element("header", args...) }
func (c *Context) HTML(args ...any) *ClassCollector    { return c.Element("html", args...) }
func (c *Context) Label(args ...any) *ClassCollector   { return c.Element("label", args...) }
func (c *Context) Li(args ...any) *ClassCollector      { return c.Element("li", args...) }
func (c *Context) Main(args ...any) *ClassCollector    { return c.Element("main", args...) }
func (c *Context) Nav(args ...any) *ClassCollector     { return c.Element("nav", args...) }
func (c *Context) Ol(args ...any) *ClassCollector      { return c.Element("ol", args...) }
func (c *Context) P(args ...any) *ClassCollector       { return c.Element("p", args...) }
func (c *Context) Section(args ...any) *ClassCollector { return c.Element("section", args...) }
func (c *Context) Span(args ...any) *ClassCollector    { return c.Element("span", args...) }
func (c *Context) Strong(args ...any) *ClassCollector  { return c.Element("strong", args...) }
func (c *Context) Table(args ...any) *ClassCollector   { return c.Element("table", args...) }
func (c *Context) Td(args ...any) *ClassCollector      { return c.Element("td", args...) }
func (c *Context) Th(args ...any) *ClassCollector      { return c.Element("th", args...) }
func (c *Context) Title(args ...any) *ClassCollector   { return c.Element("title", args...) }
func (c *Context) Tr(args ...any) *ClassCollector      { return c.Element("tr", args...) }
func (c *Context) Ul(args ...any) *ClassCollector      { return c.Element("ul", args...) }

func (c *Context) Br(attrs ...Attrs) *ClassCollector    { return c.void("br", attrs) }
func (c *Context) Hr(attrs ...Attrs) *ClassCollector    { return c.void("hr", attrs) }
func (c *Context) Img(attrs ...Attrs) *ClassCollector   { return c.void("img", attrs) }
func (c *Context) Input(attrs ...Attrs) *ClassCollector { return c.void("input", attrs) }
func (c *Context) Link(attrs ...Attrs) *ClassCollector  { return c.void("link", attrs) }
func (c *Context) Meta(attrs ...Attrs) *ClassCollector  { return c.void("meta", attrs) }

func (c *Context) void(name string, attrs []Attrs) *ClassCollector {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return c.Element(name, args...)
}
