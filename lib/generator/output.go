package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
)

// generateFile generates the *_hx.go file for one source file.
func (g *Generator) generateFile(pkgPath, pkgName, sourceFile string, comps []*ComponentInfo) error {
	// Determine output filename
	baseName := strings.TrimSuffix(filepath.Base(sourceFile), ".go")
	outputFile := filepath.Join(pkgPath, baseName+"_hx.go")

	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := g.Render(pkgName, filepath.Base(sourceFile), comps)
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, code, 0644)
}

// Render produces the formatted manifest source for comps.
func (g *Generator) Render(pkgName, sourceFile string, comps []*ComponentInfo) ([]byte, error) {
	code, err := renderTemplate(pkgName, sourceFile, comps)
	if err != nil {
		return nil, errors.Wrap(err, "render template")
	}

	formatted, err := format.Source(code)
	if err != nil {
		return code, errors.Wrap(err, "format source")
	}
	return formatted, nil
}

type importSpec struct {
	Name string
	Path string
}

// renderTemplate renders the generated code template.
func renderTemplate(pkgName, sourceFile string, comps []*ComponentInfo) ([]byte, error) {
	tmpl, err := template.New("hx").Funcs(template.FuncMap{
		"exprs": exprs,
	}).Parse(hxTemplate)
	if err != nil {
		return nil, err
	}

	sorted := make([]*ComponentInfo, len(comps))
	copy(sorted, comps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VarName < sorted[j].VarName })

	data := struct {
		Package    string
		SourceFile string
		Imports    []importSpec
		Components []*ComponentInfo
	}{
		Package:    pkgName,
		SourceFile: sourceFile,
		Imports:    collectImports(sorted),
		Components: sorted,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func collectImports(comps []*ComponentInfo) []importSpec {
	seen := make(map[string]bool)
	var out []importSpec
	for _, comp := range comps {
		for _, ref := range comp.References {
			if ref.ImportPath == "" || seen[ref.ImportName] {
				continue
			}
			seen[ref.ImportName] = true
			out = append(out, importSpec{Name: ref.ImportName, Path: ref.ImportPath})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// exprs joins reference expressions for an argument list.
func exprs(refs []Reference) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.Expr
	}
	return strings.Join(parts, ", ")
}

const hxTemplate = `// Code generated by hxview generate. DO NOT EDIT.
// Source: {{.SourceFile}}

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{.Name}} "{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Components}}
// {{.ClassName}} renders {{exprs .References}}.
var _ = {{.VarName}}.DependsOn({{exprs .References}})
{{end -}}
`
