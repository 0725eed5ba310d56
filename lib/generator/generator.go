// Package generator writes dependency manifests for hxview components.
//
// A component's cache key depends on every component it renders. Rather
// than asking authors to list those by hand, the generator reads the Go
// source of each package, finds component definitions of the form
//
//	var Page = hxview.Define("Page", func(c *hxview.Context) {
//	    c.Component(Header, nil)
//	    c.Component(widgets.Footer, nil)
//	})
//
// and writes a page_hx.go file next to the source declaring
//
//	var _ = Page.DependsOn(Header, widgets.Footer)
//
// References are found in the syntax tree, so identifiers inside comments
// and string literals are never mistaken for components. Components chosen
// at run time (a variable holding a *Class) cannot be seen and still need
// an explicit hxview.Depends or hxview.Uses option.
package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// Options configures the generator.
type Options struct {
	DryRun bool

	// Out receives progress lines. Nil means os.Stdout.
	Out io.Writer
}

// Generator generates hxview dependency manifests.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// ComponentInfo describes one component definition found in source.
type ComponentInfo struct {
	SourceFile string
	VarName    string      // e.g. "Page"
	ClassName  string      // the name passed to Define
	References []Reference // components rendered by the template
}

// Reference is a component expression passed to Context.Component or
// Context.Cached.
type Reference struct {
	Expr       string // "Header" or "widgets.Footer"
	ImportName string // "widgets" for selector references
	ImportPath string
}

// Generate generates manifests for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return errors.Wrapf(err, "package %s", pkg)
		}
	}

	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return errors.Wrapf(err, "package %s", pkg)
		}
	}

	return nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			// Skip hidden directories, vendor and testdata
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") && !strings.HasSuffix(entry.Name(), "_test.go") {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

// generatePackage writes manifests for a single package directory.
func (g *Generator) generatePackage(pkgPath string) error {
	pkgs, err := parser.ParseDir(g.fset, pkgPath, func(info os.FileInfo) bool {
		name := info.Name()
		// Skip test files and generated files
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, "_hx.go")
	}, 0)
	if err != nil {
		return err
	}

	for pkgName, pkg := range pkgs {
		files := make(map[string]*ast.File, len(pkg.Files))
		for name, f := range pkg.Files {
			files[name] = f
		}
		byFile := g.FindComponents(files)

		names := make([]string, 0, len(byFile))
		for name := range byFile {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := g.generateFile(pkgPath, pkgName, name, byFile[name]); err != nil {
				return err
			}
		}
	}

	return nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_hx.go") {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// FindComponents finds component definitions across the files of one
// package, keyed by file name. Only definitions with references are
// returned.
func (g *Generator) FindComponents(files map[string]*ast.File) map[string][]*ComponentInfo {
	// Bare identifiers count as references only when they name a
	// component defined in the same package.
	defined := make(map[string]bool)
	for _, file := range files {
		for _, def := range findDefinitions(file) {
			defined[def.name] = true
		}
	}

	out := make(map[string][]*ComponentInfo)
	for filename, file := range files {
		imports := importNames(file)
		for _, def := range findDefinitions(file) {
			info := &ComponentInfo{
				SourceFile: filename,
				VarName:    def.name,
				ClassName:  def.className,
				References: findReferences(def.call, defined, imports),
			}
			if len(info.References) > 0 {
				out[filename] = append(out[filename], info)
			}
		}
	}
	return out
}

type definition struct {
	name      string
	className string
	call      *ast.CallExpr
}

// findDefinitions finds `var X = <pkg>.Define("Name", ...)` declarations.
func findDefinitions(file *ast.File) []definition {
	var defs []definition

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range valueSpec.Names {
				if i >= len(valueSpec.Values) || name.Name == "_" {
					continue
				}
				call, ok := valueSpec.Values[i].(*ast.CallExpr)
				if !ok || !isDefineCall(call) || len(call.Args) == 0 {
					continue
				}
				lit, ok := call.Args[0].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				className, err := strconv.Unquote(lit.Value)
				if err != nil {
					continue
				}
				defs = append(defs, definition{name: name.Name, className: className, call: call})
			}
		}
	}

	return defs
}

func isDefineCall(call *ast.CallExpr) bool {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		// hxview.Define or registry.Define
		return fun.Sel.Name == "Define"
	case *ast.Ident:
		// Define (dot import)
		return fun.Name == "Define"
	}
	return false
}

// findReferences collects component arguments of c.Component(X, ...) and
// c.Cached(store, X, ...) calls inside a definition.
func findReferences(call *ast.CallExpr, defined map[string]bool, imports map[string]string) []Reference {
	seen := make(map[string]bool)
	var refs []Reference

	for _, arg := range call.Args[1:] {
		ast.Inspect(arg, func(n ast.Node) bool {
			inner, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := inner.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			var target ast.Expr
			switch {
			case sel.Sel.Name == "Component" && len(inner.Args) >= 1:
				target = inner.Args[0]
			case sel.Sel.Name == "Cached" && len(inner.Args) >= 2:
				target = inner.Args[1]
			default:
				return true
			}

			ref, ok := referenceFor(target, defined, imports)
			if ok && !seen[ref.Expr] {
				seen[ref.Expr] = true
				refs = append(refs, ref)
			}
			return true
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Expr < refs[j].Expr })
	return refs
}

func referenceFor(expr ast.Expr, defined map[string]bool, imports map[string]string) (Reference, bool) {
	switch x := expr.(type) {
	case *ast.Ident:
		if defined[x.Name] {
			return Reference{Expr: x.Name}, true
		}
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok || !isExported(x.Sel.Name) {
			return Reference{}, false
		}
		path, ok := imports[pkg.Name]
		if !ok {
			return Reference{}, false
		}
		return Reference{
			Expr:       pkg.Name + "." + x.Sel.Name,
			ImportName: pkg.Name,
			ImportPath: path,
		}, true
	}
	return Reference{}, false
}

// importNames maps the local name of each import to its path.
func importNames(file *ast.File) map[string]string {
	names := make(map[string]string)
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := filepath.Base(path)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		names[name] = path
	}
	return names
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
