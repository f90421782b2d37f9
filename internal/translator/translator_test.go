package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/jsast"
	"github.com/toyz/ngcc/internal/output"
)

func TestImportManager_GenerateNamedImport(t *testing.T) {
	im := NewImportManager()

	core := im.GenerateNamedImport("@angular/core")
	common := im.GenerateNamedImport("@angular/common")
	again := im.GenerateNamedImport("@angular/core")

	assert.Equal(t, "i0", core)
	assert.Equal(t, "i1", common)
	assert.Equal(t, core, again, "same module must yield the same alias")
	assert.Equal(t, 2, im.Len())

	assert.Equal(t, []ImportAlias{
		{ModuleSpecifier: "@angular/core", LocalName: "i0"},
		{ModuleSpecifier: "@angular/common", LocalName: "i1"},
	}, im.GetAllImports())
}

func TestImportManager_NoDuplicateSpecifiers(t *testing.T) {
	im := NewImportManagerWithPrefix("ɵngcc")
	modules := []string{"a", "b", "a", "c", "b", "a"}
	for _, m := range modules {
		im.GenerateNamedImport(m)
	}

	seen := map[string]bool{}
	for _, imp := range im.GetAllImports() {
		assert.False(t, seen[imp.ModuleSpecifier], "duplicate specifier %s", imp.ModuleSpecifier)
		seen[imp.ModuleSpecifier] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "ɵngcc2", im.GenerateNamedImport("c"))
}

func TestImportManager_FreshInstancesAreIndependent(t *testing.T) {
	first := NewImportManager()
	first.GenerateNamedImport("x")
	first.GenerateNamedImport("y")

	second := NewImportManager()
	assert.Equal(t, "i0", second.GenerateNamedImport("y"))
	assert.Empty(t, NewImportManager().GetAllImports())
}

func TestRenderImports(t *testing.T) {
	imports := []ImportAlias{
		{ModuleSpecifier: "@angular/core", LocalName: "i0"},
		{ModuleSpecifier: "./shared", LocalName: "i1"},
	}

	assert.Equal(t,
		"import * as i0 from \"@angular/core\";\nimport * as i1 from \"./shared\";\n",
		RenderImports(imports, nil))
	assert.Equal(t,
		"import * as i0 from '@angular/core';\nimport * as i1 from './shared';\n",
		RenderImports(imports, &host.SourceFile{SingleQuote: true}))
	assert.Empty(t, RenderImports(nil, nil))
}

func TestTranslateStatement(t *testing.T) {
	printer := jsast.NewPrinter()

	tests := []struct {
		name     string
		stmt     output.Statement
		expected string
		imports  []string
	}{
		{
			name: "assignment of external call",
			stmt: output.ToStmt(output.Assign(output.Wrapped("Foo"), "ɵprov",
				output.Call(output.Import("@angular/core", "ɵɵdefineInjectable"),
					output.LiteralMap(output.Entry("token", output.Variable("Foo")))))),
			expected: `Foo.ɵprov = i0.ɵɵdefineInjectable({ token: Foo });`,
			imports:  []string{"@angular/core"},
		},
		{
			name: "factory function",
			stmt: output.DeclareFunction("Foo_Factory", []string{"t"},
				output.Return(output.New(output.Binary(output.Or, output.Variable("t"), output.Variable("Foo")),
					output.Call(output.Import("@angular/core", "ɵɵinject"), output.Import("./api", "Api"))))),
			expected: "function Foo_Factory(t) {\n    return new (t || Foo)(i0.ɵɵinject(i1.Api));\n}",
			imports:  []string{"@angular/core", "./api"},
		},
		{
			name:     "const declaration with literals",
			stmt:     output.DeclareVar("_c0", output.LiteralArr(output.Literal("a"), output.Literal(1), output.Literal(true), output.Literal(nil))),
			expected: `const _c0 = ["a", 1, true, null];`,
		},
		{
			name:     "empty array and map",
			stmt:     output.DeclareVar("_c1", output.LiteralMap(output.Entry("list", output.LiteralArr()), output.Entry("m", output.LiteralMap()))),
			expected: `const _c1 = { list: [], m: {} };`,
		},
		{
			name: "wrapped host values",
			stmt: output.ToStmt(output.Wrapped(&host.ObjectLiteral{Properties: []host.Property{
				{Key: "provide", Value: &host.Identifier{Name: "TOKEN"}},
				{Key: "aria-label", Value: &host.StringLiteral{Value: "x"}},
				{Key: "tpl", Value: &host.StringLiteral{Value: "<b>${a}</b>", Template: true}},
			}})),
			expected: "({ provide: TOKEN, \"aria-label\": \"x\", tpl: `<b>${a}</b>` });",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImportManager()
			node := TranslateStatement(tt.stmt, im)
			require.NotNil(t, node)
			assert.Equal(t, tt.expected, printer.Print(node, nil))

			var modules []string
			for _, imp := range im.GetAllImports() {
				modules = append(modules, imp.ModuleSpecifier)
			}
			assert.Equal(t, tt.imports, modules)
		})
	}
}

func TestTranslateExpression_SharedManagerReusesAliases(t *testing.T) {
	im := NewImportManager()
	printer := jsast.NewPrinter()

	first := TranslateExpression(output.Import("@angular/core", "ɵɵinject"), im)
	second := TranslateExpression(output.Import("@angular/core", "ɵɵdirectiveInject"), im)

	assert.Equal(t, "i0.ɵɵinject", printer.Print(first, nil))
	assert.Equal(t, "i0.ɵɵdirectiveInject", printer.Print(second, nil))
	assert.Equal(t, 1, im.Len())
}
