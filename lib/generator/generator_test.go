package generator

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFiles(t *testing.T, sources map[string]string) map[string]*ast.File {
	t.Helper()
	fset := token.NewFileSet()
	files := make(map[string]*ast.File, len(sources))
	for name, src := range sources {
		f, err := parser.ParseFile(fset, name, src, 0)
		require.NoError(t, err)
		files[name] = f
	}
	return files
}

func TestFindComponents(t *testing.T) {
	tests := []struct {
		name     string
		sources  map[string]string
		expected map[string][]string // file -> VarName: refs
	}{
		{
			name: "local and imported references",
			sources: map[string]string{
				"page.go": `
package views
import (
	"github.com/pthm/hxview"
	"example.com/app/widgets"
)
var Header = hxview.Define("Header", func(c *hxview.Context) { c.H1("Title") })
var Page = hxview.Define("Page", func(c *hxview.Context) {
	c.Component(Header, nil)
	c.Div(func(c *hxview.Context) {
		c.Component(widgets.Footer, nil)
	})
})
`,
			},
			expected: map[string][]string{
				"page.go": {"Page: Header, widgets.Footer"},
			},
		},
		{
			name: "comments and strings are ignored",
			sources: map[string]string{
				"card.go": `
package views
import "github.com/pthm/hxview"
var Badge = hxview.Define("Badge", nil)
var Card = hxview.Define("Card", func(c *hxview.Context) {
	// c.Component(Badge, nil)
	c.Text("c.Component(Badge, nil)")
})
`,
			},
			expected: map[string][]string{},
		},
		{
			name: "references across files of one package",
			sources: map[string]string{
				"a.go": `
package views
import "github.com/pthm/hxview"
var Layout = hxview.Define("Layout", func(c *hxview.Context) {
	c.Component(Nav, nil)
	c.Component(Nav, nil)
})
`,
				"b.go": `
package views
import "github.com/pthm/hxview"
var Nav = hxview.Define("Nav", nil)
`,
			},
			expected: map[string][]string{
				"a.go": {"Layout: Nav"},
			},
		},
		{
			name: "cached references and unknown identifiers",
			sources: map[string]string{
				"list.go": `
package views
import (
	hx "github.com/pthm/hxview"
	"github.com/pthm/hxview/lib/fragment"
)
var store *fragment.Store
var Item = hx.Define("Item", nil)
var List = hx.Define("List", func(c *hx.Context) {
	c.Cached(store, Item, nil)
	c.Component(picked, nil)
})
`,
			},
			expected: map[string][]string{
				"list.go": {"List: Item"},
			},
		},
	}

	g := New(Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byFile := g.FindComponents(parseFiles(t, tt.sources))

			got := make(map[string][]string)
			for file, comps := range byFile {
				for _, comp := range comps {
					got[file] = append(got[file], comp.VarName+": "+exprs(comp.References))
				}
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRender(t *testing.T) {
	comps := []*ComponentInfo{{
		SourceFile: "page.go",
		VarName:    "Page",
		ClassName:  "Page",
		References: []Reference{
			{Expr: "Header"},
			{Expr: "widgets.Footer", ImportName: "widgets", ImportPath: "example.com/app/widgets"},
		},
	}}

	code, err := New(Options{}).Render("views", "page.go", comps)
	require.NoError(t, err)

	out := string(code)
	assert.Contains(t, out, "// Code generated by hxview generate. DO NOT EDIT.")
	assert.Contains(t, out, "package views")
	assert.Contains(t, out, `widgets "example.com/app/widgets"`)
	assert.Contains(t, out, "var _ = Page.DependsOn(Header, widgets.Footer)")
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	src := `package views

import "github.com/pthm/hxview"

var Header = hxview.Define("Header", nil)

var Page = hxview.Define("Page", func(c *hxview.Context) {
	c.Component(Header, nil)
})
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.go"), []byte(src), 0644))

	var out bytes.Buffer
	g := New(Options{Out: &out})
	require.NoError(t, g.Generate(dir))

	generated := filepath.Join(dir, "page_hx.go")
	code, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(code), "var _ = Page.DependsOn(Header)")
	assert.Contains(t, out.String(), "generating "+generated)

	// Generated files are not scanned again
	require.NoError(t, g.Generate(dir))

	require.NoError(t, g.Clean(dir))
	_, err = os.Stat(generated)
	assert.True(t, os.IsNotExist(err))
}

func TestDryRun(t *testing.T) {
	dir := t.TempDir()
	src := `package views

import "github.com/pthm/hxview"

var A = hxview.Define("A", nil)
var B = hxview.Define("B", func(c *hxview.Context) { c.Component(A, nil) })
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views.go"), []byte(src), 0644))

	var out bytes.Buffer
	require.NoError(t, New(Options{DryRun: true, Out: &out}).Generate(dir+"/..."))

	assert.Contains(t, out.String(), "views_hx.go")
	_, err := os.Stat(filepath.Join(dir, "views_hx.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package views\n\nvar = \n"), 0644))

	err := New(Options{Out: &bytes.Buffer{}}).Generate(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package "+dir)

	var list scanner.ErrorList
	assert.True(t, errors.As(err, &list))
	_, statErr := os.Stat(filepath.Join(dir, "broken_hx.go"))
	assert.True(t, os.IsNotExist(statErr))
}
