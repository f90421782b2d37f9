package annotations

import (
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// DirectiveAnalysis is what the directive handler extracts from @Directive
type DirectiveAnalysis struct {
	Ref       Reference
	Selector  string
	Selectors []CssSelector
	Inputs    []BindingProperty
	Outputs   []BindingProperty
	ExportAs  string
	Deps      []Dependency
}

// DirectiveDecoratorHandler compiles @Directive classes into ɵdir definitions
type DirectiveDecoratorHandler struct {
	host   host.ReflectionHost
	scope  *SelectorScopeRegistry
	target Target
}

func NewDirectiveDecoratorHandler(h host.ReflectionHost, scope *SelectorScopeRegistry, target Target) *DirectiveDecoratorHandler {
	return &DirectiveDecoratorHandler{host: h, scope: scope, target: target}
}

func (d *DirectiveDecoratorHandler) Name() string {
	return "Directive"
}

func (d *DirectiveDecoratorHandler) Detect(decorators []host.Decorator) *host.Decorator {
	return detectCoreDecorator(decorators, "Directive")
}

func (d *DirectiveDecoratorHandler) Analyze(decl *host.ClassDeclaration, decorator *host.Decorator) AnalysisOutput[*DirectiveAnalysis] {
	meta, diagnostics := readMetadata(decl, decorator, true)
	if meta == nil {
		return AnalysisOutput[*DirectiveAnalysis]{Diagnostics: diagnostics}
	}

	diagnostics = append(diagnostics, checkKeys(decl, decorator, meta,
		"selector", "inputs", "outputs", "host", "providers", "exportAs", "queries", "jit")...)

	analysis := &DirectiveAnalysis{Ref: localReference(decl.SourceFile, decl.Name)}

	selector, found, diags := readString(decl, meta, "selector")
	diagnostics = append(diagnostics, diags...)
	if found {
		analysis.Selector = selector
		selectors, err := ParseSelector(selector)
		if err != nil {
			diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeUnsupportedSelector, decl,
				"directive '%s': %v", decl.Name, err))
		}
		analysis.Selectors = selectors
	}

	inputs, diags := readStringArray(decl, meta, "inputs")
	diagnostics = append(diagnostics, diags...)
	analysis.Inputs = parseBindings(inputs)

	outputs, diags := readStringArray(decl, meta, "outputs")
	diagnostics = append(diagnostics, diags...)
	analysis.Outputs = parseBindings(outputs)

	exportAs, _, diags := readString(decl, meta, "exportAs")
	diagnostics = append(diagnostics, diags...)
	analysis.ExportAs = exportAs

	deps, diags := resolveDependencies(d.host, decl)
	diagnostics = append(diagnostics, diags...)
	analysis.Deps = deps

	if analysis.Selector != "" {
		d.scope.RegisterSelector(analysis.Ref, analysis.Selector)
	}

	return AnalysisOutput[*DirectiveAnalysis]{Analysis: analysis, Diagnostics: diagnostics}
}

func (d *DirectiveDecoratorHandler) Compile(decl *host.ClassDeclaration, analysis *DirectiveAnalysis) (*CompileResult, error) {
	if analysis == nil {
		return nil, errors.NewCompilationError(decl.Name, d.Name(), "decorator metadata could not be analyzed", decl.Location())
	}
	if analysis.Selector == "" {
		return nil, errors.NewCompilationError(decl.Name, d.Name(), "directive has no selector", decl.Location()).
			WithSuggestion("Add a selector such as '[appHighlight]' to the @Directive metadata")
	}

	factory := compileFactoryFunction(d.target, d.target.DirectiveInject, decl.Name, analysis.Deps)

	entries := []output.LiteralMapEntry{
		output.Entry("type", output.Wrapped(decl.Name)),
		output.Entry("selectors", selectorsExpression(analysis.Selectors)),
		output.Entry("factory", output.Variable(factory.Name)),
	}
	if len(analysis.Inputs) > 0 {
		entries = append(entries, output.Entry("inputs", bindingsExpression(analysis.Inputs)))
	}
	if len(analysis.Outputs) > 0 {
		entries = append(entries, output.Entry("outputs", bindingsExpression(analysis.Outputs)))
	}
	if analysis.ExportAs != "" {
		entries = append(entries, output.Entry("exportAs", output.Literal(analysis.ExportAs)))
	}

	return &CompileResult{
		Field:       d.target.DirectiveField,
		Initializer: output.Call(output.Import(CoreModule, d.target.DefineDirective), output.LiteralMap(entries...)),
		Statements:  []output.Statement{factory},
	}, nil
}
