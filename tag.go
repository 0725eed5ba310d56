package hxview

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/cockroachdb/errors"
)

// Attrs maps attribute names to values.
type Attrs map[string]any

// Symbol is a class name given as an identifier rather than free text.
type Symbol string

const classAttr = "class"

// Tag is a markup element.
//
// The "class" attribute is not stored with the other attributes. Every
// assignment to it is appended to a class list, which is finalized the
// first time it is read: surrounding whitespace is trimmed and, when
// Settings().ConvertUnderscoresToDashes is on, underscores become dashes.
// A finalized class list cannot be extended.
type Tag struct {
	name       string
	void       bool
	attributes Attrs
	classes    strings.Builder
	final      *string
	children   Children
}

// NewTag returns a standard element with the given attributes.
func NewTag(name string, attrs Attrs) (*Tag, error) {
	t := &Tag{name: name, attributes: Attrs{}}
	if err := t.SetAttributes(attrs); err != nil {
		return nil, err
	}
	return t, nil
}

// NewVoidTag returns an element without children or closing tag.
func NewVoidTag(name string, attrs Attrs) (*Tag, error) {
	t, err := NewTag(name, attrs)
	if err != nil {
		return nil, err
	}
	t.void = true
	return t, nil
}

// Name returns the element name.
func (t *Tag) Name() string {
	return t.name
}

// IsVoid reports whether the element is a void element.
func (t *Tag) IsVoid() bool {
	return t.void
}

// SetAttributes merges attrs into the tag. A "class" entry is routed to
// the class list.
func (t *Tag) SetAttributes(attrs Attrs) error {
	for k, v := range attrs {
		if k == classAttr {
			if err := t.AddClass(v); err != nil {
				return err
			}
			continue
		}
		t.attributes[k] = v
	}
	return nil
}

// Attribute returns the value set for name. The class list is read with
// Classes.
func (t *Tag) Attribute(name string) (any, bool) {
	v, ok := t.attributes[name]
	return v, ok
}

// AddClass appends v to the class list. v may be a string, a Symbol, a
// []string, a []Symbol or nil (no-op).
func (t *Tag) AddClass(v any) error {
	var value string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		value = x
	case Symbol:
		value = string(x)
	case []string:
		value = strings.Join(x, " ")
	case []Symbol:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = string(s)
		}
		value = strings.Join(parts, " ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			switch e := e.(type) {
			case string:
				parts = append(parts, e)
			case Symbol:
				parts = append(parts, string(e))
			case nil:
			default:
				return errors.Wrapf(ErrClassType, "<%s> got %T in class list", t.name, e)
			}
		}
		value = strings.Join(parts, " ")
	default:
		return errors.Wrapf(ErrClassType, "<%s> got %T", t.name, v)
	}
	if t.final != nil {
		return errors.Wrapf(ErrClassFrozen, "<%s>", t.name)
	}
	t.classes.WriteString(" ")
	t.classes.WriteString(value)
	return nil
}

// Classes finalizes and returns the class list.
func (t *Tag) Classes() string {
	if t.final == nil {
		s := t.classes.String()
		if Settings().ConvertUnderscoresToDashes {
			s = strings.ReplaceAll(s, "_", "-")
		}
		s = strings.TrimSpace(s)
		t.final = &s
	}
	return *t.final
}

// ChildNodes implements Container.
func (t *Tag) ChildNodes() *Children {
	return &t.children
}

// Render implements Node.
func (t *Tag) Render(buf *bytes.Buffer) error {
	buf.WriteByte('<')
	buf.WriteString(t.openingTagContent())
	buf.WriteByte('>')
	if t.void {
		return nil
	}
	if err := t.children.Render(buf); err != nil {
		return err
	}
	buf.WriteString("</")
	buf.WriteString(t.name)
	buf.WriteByte('>')
	return nil
}

func (t *Tag) openingTagContent() string {
	return t.name + t.serializeAttributes()
}

// serializeAttributes renders ` k="v"` pairs sorted by name. Nil values
// are dropped and values are escaped.
func (t *Tag) serializeAttributes() string {
	attrs := make(map[string]string, len(t.attributes)+1)
	for k, v := range t.attributes {
		if v == nil {
			continue
		}
		attrs[k] = templ.EscapeString(fmt.Sprint(v))
	}
	if classes := t.Classes(); classes != "" {
		attrs[classAttr] = templ.EscapeString(classes)
	}
	if len(attrs) == 0 {
		return ""
	}

	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, k := range names {
		pairs[i] = fmt.Sprintf(`%s="%s"`, k, attrs[k])
	}
	return " " + strings.Join(pairs, " ")
}

// ClassCollector chains class names onto a tag after it was built:
//
//	c.Div().Class("card", "card_wide")
type ClassCollector struct {
	ctx *Context
	tag *Tag
}

// Class adds values to the tag's class list. Errors are recorded on the
// render context.
func (cc *ClassCollector) Class(values ...any) *ClassCollector {
	if cc == nil || cc.tag == nil {
		return cc
	}
	for _, v := range values {
		if err := cc.tag.AddClass(v); err != nil {
			if cc.ctx != nil {
				cc.ctx.fail(err)
			}
			return cc
		}
	}
	return cc
}

// Tag returns the bound tag, or nil when the builder failed.
func (cc *ClassCollector) Tag() *Tag {
	if cc == nil {
		return nil
	}
	return cc.tag
}
