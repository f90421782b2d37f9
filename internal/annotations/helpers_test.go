package annotations

import (
	"strings"

	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/jsast"
	"github.com/toyz/ngcc/internal/output"
	"github.com/toyz/ngcc/internal/translator"
)

func coreImport(name string) host.Import {
	return host.Import{Name: name, Local: name, Module: CoreModule}
}

func newSourceFile(fileName string, imports ...host.Import) *host.SourceFile {
	all := []host.Import{
		coreImport("Component"),
		coreImport("Directive"),
		coreImport("Injectable"),
		coreImport("NgModule"),
		coreImport("Inject"),
		coreImport("Optional"),
		coreImport("Self"),
	}
	return &host.SourceFile{FileName: fileName, Imports: append(all, imports...)}
}

// decorator builds a decorator application resolved against sf
func decorator(sf *host.SourceFile, name string, args ...host.Value) host.Decorator {
	d := host.Decorator{Name: name, Identifier: name, Args: args}
	for i := range sf.Imports {
		if sf.Imports[i].Local == name {
			d.Import = &sf.Imports[i]
		}
	}
	return d
}

func class(sf *host.SourceFile, name string, params ...host.Parameter) *host.ClassDeclaration {
	return &host.ClassDeclaration{
		Name:        name,
		Exported:    true,
		Constructor: params,
		HasCtor:     len(params) > 0,
		Pos:         host.Position{Line: 3, Column: 1},
		SourceFile:  sf,
	}
}

func obj(kv ...any) *host.ObjectLiteral {
	o := &host.ObjectLiteral{}
	for i := 0; i < len(kv); i += 2 {
		o.Properties = append(o.Properties, host.Property{Key: kv[i].(string), Value: kv[i+1].(host.Value)})
	}
	return o
}

func str(s string) *host.StringLiteral {
	return &host.StringLiteral{Value: s}
}

func ident(name string) *host.Identifier {
	return &host.Identifier{Name: name}
}

func arr(values ...host.Value) *host.ArrayLiteral {
	return &host.ArrayLiteral{Elements: values}
}

func printExpr(expr output.Expression, im *translator.ImportManager) string {
	return jsast.NewPrinter().Print(translator.TranslateExpression(expr, im), nil)
}

func printStmts(stmts []output.Statement, im *translator.ImportManager) string {
	printer := jsast.NewPrinter()
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = printer.Print(translator.TranslateStatement(stmt, im), nil)
	}
	return strings.Join(lines, "\n")
}

func codes(diagnostics []Diagnostic) []int {
	result := make([]int, len(diagnostics))
	for i, d := range diagnostics {
		result[i] = d.Code
	}
	return result
}

type mapLoader map[string]string

func (m mapLoader) Load(url, containingFile string) (string, error) {
	content, ok := m[url]
	if !ok {
		return "", &notFound{url: url}
	}
	return content, nil
}

type notFound struct{ url string }

func (e *notFound) Error() string { return "resource not found: " + e.url }
