package hxview

import (
	"bytes"
	"context"
	"sync"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/cockroachdb/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// The goldmark converter is configured once and shared; Convert keeps its
// per-call state internally.
var (
	markdownOnce      sync.Once
	markdownConverter goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConverter = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return markdownConverter
}

// Markdown is a leaf that renders GitHub-flavored Markdown to HTML. Raw
// HTML in the source is omitted.
type Markdown struct {
	Source string
}

// Render implements Node.
func (m Markdown) Render(buf *bytes.Buffer) error {
	if err := markdown().Convert([]byte(m.Source), buf); err != nil {
		return errors.Wrap(err, "hxview: markdown")
	}
	return nil
}

// CodeStyle is the chroma style used by Code nodes.
const CodeStyle = "github"

// Code is a leaf that renders source code as a highlighted <pre> block
// with inline styles. An empty or unknown Language falls back to chroma's
// content analysis, then to plain text.
type Code struct {
	Language string
	Source   string
}

var codeFormatter = chromahtml.New(chromahtml.TabWidth(4))

// Render implements Node.
func (c Code) Render(buf *bytes.Buffer) error {
	lexer := lexers.Get(c.Language)
	if lexer == nil {
		lexer = lexers.Analyse(c.Source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, c.Source)
	if err != nil {
		return errors.Wrapf(err, "hxview: tokenising %q", c.Language)
	}
	if err := codeFormatter.Format(buf, styles.Get(CodeStyle), iterator); err != nil {
		return errors.Wrapf(err, "hxview: highlighting %q", c.Language)
	}
	return nil
}

// TemplNode embeds a templ.Component in a render tree.
type TemplNode struct {
	Component templ.Component
}

// Render implements Node.
func (t TemplNode) Render(buf *bytes.Buffer) error {
	if t.Component == nil {
		return nil
	}
	return t.Component.Render(context.Background(), buf)
}

// Markdown appends rendered Markdown.
func (c *Context) Markdown(source string) {
	c.Node(Markdown{Source: source})
}

// Code appends highlighted source code.
func (c *Context) Code(language, source string) {
	c.Node(Code{Language: language, Source: source})
}

// Templ appends a templ component.
func (c *Context) Templ(component templ.Component) {
	if component == nil {
		return
	}
	c.Node(TemplNode{Component: component})
}
