package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/translator"
)

func TestDirectiveHandler(t *testing.T) {
	scope := NewSelectorScopeRegistry()
	handler := NewDirectiveDecoratorHandler(host.NewReflectionHost(), scope, DefaultTarget())
	sf := newSourceFile("src/highlight.directive.ts")

	t.Run("compiles with selector", func(t *testing.T) {
		decl := class(sf, "HighlightDirective")
		d := decorator(sf, "Directive", obj(
			"selector", str("[appHighlight]"),
			"exportAs", str("highlight"),
		))

		out := handler.Analyze(decl, &d)
		assert.Empty(t, out.Diagnostics)

		result, err := handler.Compile(decl, out.Analysis)
		require.NoError(t, err)
		assert.Equal(t, "ɵdir", result.Field)
		assert.Equal(t,
			`i0.ɵɵdefineDirective({ type: HighlightDirective, selectors: [["", "appHighlight", ""]], factory: HighlightDirective_Factory, exportAs: "highlight" })`,
			printExpr(result.Initializer, translator.NewImportManager()))
	})

	t.Run("missing selector is a compilation error", func(t *testing.T) {
		decl := class(sf, "Abstract")
		d := decorator(sf, "Directive")

		out := handler.Analyze(decl, &d)
		require.NotNil(t, out.Analysis)

		_, err := handler.Compile(decl, out.Analysis)
		var compErr *errors.CompilationError
		require.True(t, errors.As(err, &compErr))
		assert.Equal(t, "Directive", compErr.Handler)
		assert.NotEmpty(t, compErr.Suggestions())
	})

	t.Run("unsupported selector", func(t *testing.T) {
		decl := class(sf, "Weird")
		d := decorator(sf, "Directive", obj("selector", str("div > span")))

		out := handler.Analyze(decl, &d)
		assert.Equal(t, []int{CodeUnsupportedSelector}, codes(out.Diagnostics))
	})
}

func TestInjectableHandler(t *testing.T) {
	handler := NewInjectableDecoratorHandler(host.NewReflectionHost(), DefaultTarget())
	sf := newSourceFile("src/data.service.ts",
		host.Import{Name: "HttpClient", Local: "HttpClient", Module: "@angular/common/http"},
		host.Import{Name: "Optional", Local: "Opt", Module: CoreModule},
	)

	compile := func(t *testing.T, decl *host.ClassDeclaration, d host.Decorator) (string, string, []Diagnostic) {
		out := handler.Analyze(decl, &d)
		result, err := handler.Compile(decl, out.Analysis)
		require.NoError(t, err)
		assert.Equal(t, "ɵprov", result.Field)
		im := translator.NewImportManager()
		return printStmts(result.Statements, im), printExpr(result.Initializer, im), out.Diagnostics
	}

	t.Run("constructor factory", func(t *testing.T) {
		decl := class(sf, "DataService", host.Parameter{Name: "http", Type: ident("HttpClient")})
		stmts, init, diags := compile(t, decl, decorator(sf, "Injectable", obj("providedIn", str("root"))))

		assert.Empty(t, diags)
		assert.Equal(t, "function DataService_Factory(t) {\n    return new (t || DataService)(i0.ɵɵinject(i1.HttpClient));\n}", stmts)
		assert.Equal(t, `i0.ɵɵdefineInjectable({ token: DataService, factory: DataService_Factory, providedIn: "root" })`, init)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, init, diags := compile(t, class(sf, "Plain"), decorator(sf, "Injectable"))
		assert.Empty(t, diags)
		assert.Contains(t, init, "providedIn: null")
	})

	t.Run("injector scopes", func(t *testing.T) {
		for _, scope := range []string{"root", "platform", "any"} {
			_, init, diags := compile(t, class(sf, "Scoped"), decorator(sf, "Injectable", obj("providedIn", str(scope))))
			assert.Empty(t, diags, scope)
			assert.Contains(t, init, `providedIn: "`+scope+`"`)
		}
	})

	t.Run("invalid providedIn", func(t *testing.T) {
		_, _, diags := compile(t, class(sf, "Bad"), decorator(sf, "Injectable", obj("providedIn", str("everywhere"))))
		assert.Equal(t, []int{CodeValueHasWrongType}, codes(diags))
	})

	t.Run("useValue", func(t *testing.T) {
		stmts, init, _ := compile(t, class(sf, "Config"),
			decorator(sf, "Injectable", obj("providedIn", str("root"), "useValue", &host.NumberLiteral{Raw: "42"})))
		assert.Empty(t, stmts)
		assert.Contains(t, init, "factory: function () {\n    return 42;\n}")
	})

	t.Run("useFactory with deps", func(t *testing.T) {
		_, init, diags := compile(t, class(sf, "Api"), decorator(sf, "Injectable", obj(
			"useFactory", ident("createApi"),
			"deps", arr(ident("HttpClient"), arr(&host.CallExpression{Callee: ident("Opt")}, str("API_URL"))),
		)))
		assert.Empty(t, diags)
		assert.Contains(t, init, `return createApi(i0.ɵɵinject(i1.HttpClient), i0.ɵɵinject("API_URL", 8));`)
	})

	t.Run("useExisting", func(t *testing.T) {
		_, init, _ := compile(t, class(sf, "Alias"), decorator(sf, "Injectable", obj("useExisting", ident("HttpClient"))))
		assert.Contains(t, init, "return i0.ɵɵinject(i1.HttpClient);")
	})
}

func TestNgModuleHandler(t *testing.T) {
	scope := NewSelectorScopeRegistry()
	handler := NewNgModuleDecoratorHandler(host.NewReflectionHost(), scope, DefaultTarget())
	sf := newSourceFile("src/app/app.module.ts",
		host.Import{Name: "RouterModule", Local: "RouterModule", Module: "@angular/router"},
		host.Import{Local: "common", Module: "@angular/common", Namespace: true},
	)

	decl := class(sf, "AppModule")
	d := decorator(sf, "NgModule", obj(
		"declarations", arr(ident("AppComponent")),
		"imports", arr(
			&host.PropertyAccess{Receiver: ident("common"), Name: "CommonModule"},
			&host.CallExpression{
				Callee: &host.PropertyAccess{Receiver: ident("RouterModule"), Name: "forRoot"},
				Args:   []host.Value{arr()},
			},
		),
		"bootstrap", arr(ident("AppComponent")),
		"providers", arr(ident("Logger")),
	))

	out := handler.Analyze(decl, &d)
	assert.Empty(t, out.Diagnostics)

	result, err := handler.Compile(decl, out.Analysis)
	require.NoError(t, err)
	assert.Equal(t, "ɵmod", result.Field)

	im := translator.NewImportManager()
	stmts := printStmts(result.Statements, im)
	init := printExpr(result.Initializer, im)

	assert.Equal(t,
		"function AppModule_Factory(t) {\n    return new (t || AppModule)();\n}\n"+
			"AppModule.ɵinj = i0.ɵɵdefineInjector({ factory: AppModule_Factory, providers: [Logger], "+
			"imports: [i1.CommonModule, RouterModule.forRoot([])] });",
		stmts)
	assert.Equal(t,
		"i0.ɵɵdefineNgModule({ type: AppModule, bootstrap: [AppComponent], declarations: [AppComponent], "+
			"imports: [i1.CommonModule, i2.RouterModule] })",
		init)

	t.Run("registers its scope", func(t *testing.T) {
		cmp := localReference(sf, "AppComponent")
		scope.RegisterSelector(cmp, "app-root")

		visible := scope.LookupCompilationScope(cmp)
		require.Len(t, visible, 1)
		assert.Equal(t, "app-root", visible[0].Selector)
	})

	t.Run("non reference entries", func(t *testing.T) {
		bad := decorator(sf, "NgModule", obj("declarations", arr(str("AppComponent"))))
		out := handler.Analyze(class(sf, "BadModule"), &bad)
		assert.Equal(t, []int{CodeUnresolvedReference}, codes(out.Diagnostics))
	})
}

func TestErase_RejectsForeignAnalysis(t *testing.T) {
	handler := Erase[*InjectableAnalysis](NewInjectableDecoratorHandler(host.NewReflectionHost(), DefaultTarget()))
	decl := class(newSourceFile("src/a.ts"), "A")

	_, err := handler.Compile(decl, &ComponentAnalysis{})
	var compErr *errors.CompilationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, "Injectable", compErr.Handler)
}
