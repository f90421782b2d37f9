package annotations

import (
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// NgModuleAnalysis is what the module handler extracts from @NgModule
type NgModuleAnalysis struct {
	Ref          Reference
	Declarations []host.Value
	Imports      []host.Value
	Exports      []host.Value
	Bootstrap    []host.Value
	Providers    host.Value
	Deps         []Dependency
}

// NgModuleDecoratorHandler compiles @NgModule classes into ɵmod and ɵinj
// definitions and records module scopes for component compilation
type NgModuleDecoratorHandler struct {
	host   host.ReflectionHost
	scope  *SelectorScopeRegistry
	target Target
}

func NewNgModuleDecoratorHandler(h host.ReflectionHost, scope *SelectorScopeRegistry, target Target) *NgModuleDecoratorHandler {
	return &NgModuleDecoratorHandler{host: h, scope: scope, target: target}
}

func (m *NgModuleDecoratorHandler) Name() string {
	return "NgModule"
}

func (m *NgModuleDecoratorHandler) Detect(decorators []host.Decorator) *host.Decorator {
	return detectCoreDecorator(decorators, "NgModule")
}

func (m *NgModuleDecoratorHandler) Analyze(decl *host.ClassDeclaration, d *host.Decorator) AnalysisOutput[*NgModuleAnalysis] {
	meta, diagnostics := readMetadata(decl, d, true)
	if meta == nil {
		return AnalysisOutput[*NgModuleAnalysis]{Diagnostics: diagnostics}
	}
	diagnostics = append(diagnostics, checkKeys(decl, d, meta,
		"declarations", "imports", "exports", "bootstrap", "providers", "entryComponents", "schemas", "id", "jit")...)

	analysis := &NgModuleAnalysis{Ref: localReference(decl.SourceFile, decl.Name)}
	var diags []Diagnostic

	analysis.Declarations, diags = readReferences(decl, meta, "declarations")
	diagnostics = append(diagnostics, diags...)
	analysis.Imports, diags = readReferences(decl, meta, "imports")
	diagnostics = append(diagnostics, diags...)
	analysis.Exports, diags = readReferences(decl, meta, "exports")
	diagnostics = append(diagnostics, diags...)
	analysis.Bootstrap, diags = readReferences(decl, meta, "bootstrap")
	diagnostics = append(diagnostics, diags...)

	if providers, ok := meta.Get("providers"); ok {
		analysis.Providers = providers
	}

	deps, diags := resolveDependencies(m.host, decl)
	diagnostics = append(diagnostics, diags...)
	analysis.Deps = deps

	m.scope.RegisterModule(analysis.Ref, ModuleData{
		Declarations: m.resolveAll(decl.SourceFile, analysis.Declarations),
		Imports:      m.resolveAll(decl.SourceFile, analysis.Imports),
		Exports:      m.resolveAll(decl.SourceFile, analysis.Exports),
	})

	return AnalysisOutput[*NgModuleAnalysis]{Analysis: analysis, Diagnostics: diagnostics}
}

func (m *NgModuleDecoratorHandler) resolveAll(sf *host.SourceFile, values []host.Value) []Reference {
	refs := make([]Reference, 0, len(values))
	for _, v := range values {
		if ref, ok := resolveReference(m.host, sf, referenceTarget(v)); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func (m *NgModuleDecoratorHandler) Compile(decl *host.ClassDeclaration, analysis *NgModuleAnalysis) (*CompileResult, error) {
	if analysis == nil {
		return nil, errors.NewCompilationError(decl.Name, m.Name(), "decorator metadata could not be analyzed", decl.Location())
	}
	sf := decl.SourceFile

	entries := []output.LiteralMapEntry{output.Entry("type", output.Wrapped(decl.Name))}
	for _, list := range []struct {
		key  string
		refs []host.Value
	}{
		{"bootstrap", analysis.Bootstrap},
		{"declarations", analysis.Declarations},
		{"imports", moduleTypes(analysis.Imports)},
		{"exports", moduleTypes(analysis.Exports)},
	} {
		if len(list.refs) > 0 {
			entries = append(entries, output.Entry(list.key, referenceList(m.host, sf, list.refs)))
		}
	}

	factory := compileFactoryFunction(m.target, m.target.Inject, decl.Name, analysis.Deps)

	injectorEntries := []output.LiteralMapEntry{output.Entry("factory", output.Variable(factory.Name))}
	if analysis.Providers != nil {
		injectorEntries = append(injectorEntries, output.Entry("providers", m.providers(sf, analysis.Providers)))
	}
	if len(analysis.Imports) > 0 {
		injectorEntries = append(injectorEntries, output.Entry("imports", referenceList(m.host, sf, analysis.Imports)))
	}
	injector := output.ToStmt(output.Assign(output.Wrapped(decl.Name), m.target.InjectorField,
		output.Call(output.Import(CoreModule, m.target.DefineInjector), output.LiteralMap(injectorEntries...))))

	return &CompileResult{
		Field:       m.target.NgModuleField,
		Initializer: output.Call(output.Import(CoreModule, m.target.DefineNgModule), output.LiteralMap(entries...)),
		Statements:  []output.Statement{factory, injector},
	}, nil
}

// providers keeps provider entries as written, aliasing imported tokens
func (m *NgModuleDecoratorHandler) providers(sf *host.SourceFile, v host.Value) output.Expression {
	arr, ok := v.(*host.ArrayLiteral)
	if !ok {
		return valueExpression(m.host, sf, v)
	}
	entries := make([]output.Expression, len(arr.Elements))
	for i, el := range arr.Elements {
		entries[i] = valueExpression(m.host, sf, el)
	}
	return output.LiteralArr(entries...)
}

// moduleTypes drops the provider call of ModuleWithProviders entries
func moduleTypes(values []host.Value) []host.Value {
	types := make([]host.Value, len(values))
	for i, v := range values {
		types[i] = referenceTarget(v)
	}
	return types
}
