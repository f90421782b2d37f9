package annotations

import (
	"github.com/google/uuid"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// defaultComponentSelector is used for components declared without a selector
const defaultComponentSelector = "ng-component"

// ResourceLoader fetches external templates and stylesheets referenced by components
type ResourceLoader interface {
	Load(url, containingFile string) (string, error)
}

// ComponentAnalysis is everything the component handler extracts from @Component
type ComponentAnalysis struct {
	Ref             Reference
	Selector        string
	Selectors       []CssSelector
	Template        *string
	TemplateURL     string
	Styles          []string
	Inputs          []BindingProperty
	Outputs         []BindingProperty
	ChangeDetection output.Expression
	Encapsulation   output.Expression
	Deps            []Dependency
}

// ComponentDecoratorHandler compiles @Component classes into ɵcmp definitions
type ComponentDecoratorHandler struct {
	host   host.ReflectionHost
	scope  *SelectorScopeRegistry
	target Target
	loader ResourceLoader
}

// NewComponentDecoratorHandler creates the component handler. loader may be nil,
// in which case templateUrl and styleUrls cannot be resolved.
func NewComponentDecoratorHandler(h host.ReflectionHost, scope *SelectorScopeRegistry, target Target, loader ResourceLoader) *ComponentDecoratorHandler {
	return &ComponentDecoratorHandler{host: h, scope: scope, target: target, loader: loader}
}

func (c *ComponentDecoratorHandler) Name() string {
	return "Component"
}

func (c *ComponentDecoratorHandler) Detect(decorators []host.Decorator) *host.Decorator {
	return detectCoreDecorator(decorators, "Component")
}

func (c *ComponentDecoratorHandler) Analyze(decl *host.ClassDeclaration, d *host.Decorator) AnalysisOutput[*ComponentAnalysis] {
	meta, diagnostics := readMetadata(decl, d, false)
	if meta == nil {
		return AnalysisOutput[*ComponentAnalysis]{Diagnostics: diagnostics}
	}

	diagnostics = append(diagnostics, checkKeys(decl, d, meta,
		"selector", "template", "templateUrl", "styles", "styleUrls", "inputs", "outputs",
		"changeDetection", "encapsulation", "providers", "viewProviders", "host", "exportAs",
		"preserveWhitespaces", "moduleId", "animations", "entryComponents", "interpolation")...)

	analysis := &ComponentAnalysis{Ref: localReference(decl.SourceFile, decl.Name)}

	selector, found, diags := readString(decl, meta, "selector")
	diagnostics = append(diagnostics, diags...)
	if !found {
		selector = defaultComponentSelector
		if len(diags) == 0 {
			diagnostics = append(diagnostics, diagnostic(DiagnosticWarning, CodeMissingSelector, decl,
				"component '%s' has no selector, using '%s'", decl.Name, defaultComponentSelector))
		}
	}
	analysis.Selector = selector
	if selectors, err := ParseSelector(selector); err != nil {
		diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeUnsupportedSelector, decl,
			"component '%s': %v", decl.Name, err))
	} else {
		analysis.Selectors = selectors
	}

	diagnostics = append(diagnostics, c.analyzeTemplate(decl, meta, analysis)...)
	diagnostics = append(diagnostics, c.analyzeStyles(decl, meta, analysis)...)

	inputs, diags := readStringArray(decl, meta, "inputs")
	diagnostics = append(diagnostics, diags...)
	analysis.Inputs = parseBindings(inputs)

	outputs, diags := readStringArray(decl, meta, "outputs")
	diagnostics = append(diagnostics, diags...)
	analysis.Outputs = parseBindings(outputs)

	if v, ok := meta.Get("changeDetection"); ok {
		analysis.ChangeDetection = valueExpression(c.host, decl.SourceFile, v)
	}
	if v, ok := meta.Get("encapsulation"); ok {
		analysis.Encapsulation = valueExpression(c.host, decl.SourceFile, v)
	}

	deps, diags := resolveDependencies(c.host, decl)
	diagnostics = append(diagnostics, diags...)
	analysis.Deps = deps

	c.scope.RegisterSelector(analysis.Ref, selector)

	return AnalysisOutput[*ComponentAnalysis]{Analysis: analysis, Diagnostics: diagnostics}
}

func (c *ComponentDecoratorHandler) analyzeTemplate(decl *host.ClassDeclaration, meta *host.ObjectLiteral, analysis *ComponentAnalysis) []Diagnostic {
	template, hasTemplate, diagnostics := readString(decl, meta, "template")
	templateURL, hasURL, diags := readString(decl, meta, "templateUrl")
	diagnostics = append(diagnostics, diags...)

	if hasTemplate {
		analysis.Template = &template
		if hasURL {
			diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeTemplateConflict, decl,
				"component '%s' declares both template and templateUrl", decl.Name))
		}
		return diagnostics
	}
	if !hasURL {
		return diagnostics
	}

	analysis.TemplateURL = templateURL
	content, err := c.load(templateURL, decl)
	if err != nil {
		return append(diagnostics, diagnostic(DiagnosticError, CodeResourceNotFound, decl,
			"cannot load template of '%s': %v", decl.Name, err))
	}
	analysis.Template = &content
	return diagnostics
}

func (c *ComponentDecoratorHandler) analyzeStyles(decl *host.ClassDeclaration, meta *host.ObjectLiteral, analysis *ComponentAnalysis) []Diagnostic {
	styles, diagnostics := readStringArray(decl, meta, "styles")
	analysis.Styles = styles

	styleURLs, diags := readStringArray(decl, meta, "styleUrls")
	diagnostics = append(diagnostics, diags...)
	for _, url := range styleURLs {
		content, err := c.load(url, decl)
		if err != nil {
			diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeResourceNotFound, decl,
				"cannot load stylesheet of '%s': %v", decl.Name, err))
			continue
		}
		analysis.Styles = append(analysis.Styles, content)
	}
	return diagnostics
}

func (c *ComponentDecoratorHandler) load(url string, decl *host.ClassDeclaration) (string, error) {
	if c.loader == nil {
		return "", errors.New(errors.FileSystemErrorCode, "no resource loader configured for '"+url+"'")
	}
	containingFile := ""
	if decl.SourceFile != nil {
		containingFile = decl.SourceFile.FileName
	}
	return c.loader.Load(url, containingFile)
}

func (c *ComponentDecoratorHandler) Compile(decl *host.ClassDeclaration, analysis *ComponentAnalysis) (*CompileResult, error) {
	if analysis == nil {
		return nil, errors.NewCompilationError(decl.Name, c.Name(), "decorator metadata could not be analyzed", decl.Location())
	}
	if analysis.Template == nil {
		return nil, errors.NewCompilationError(decl.Name, c.Name(), "component is missing a template", decl.Location()).
			WithSuggestion("Add a template or templateUrl property to the @Component metadata")
	}

	factory := compileFactoryFunction(c.target, c.target.DirectiveInject, decl.Name, analysis.Deps)

	entries := []output.LiteralMapEntry{
		output.Entry("type", output.Wrapped(decl.Name)),
		output.Entry("selectors", selectorsExpression(analysis.Selectors)),
		output.Entry("factory", output.Variable(factory.Name)),
		output.Entry("id", output.Literal(componentID(analysis.Selector, *analysis.Template))),
	}
	if len(analysis.Inputs) > 0 {
		entries = append(entries, output.Entry("inputs", bindingsExpression(analysis.Inputs)))
	}
	if len(analysis.Outputs) > 0 {
		entries = append(entries, output.Entry("outputs", bindingsExpression(analysis.Outputs)))
	}
	entries = append(entries, output.Entry("template", output.Literal(*analysis.Template)))
	if len(analysis.Styles) > 0 {
		styles := make([]output.Expression, len(analysis.Styles))
		for i, style := range analysis.Styles {
			styles[i] = output.Literal(style)
		}
		entries = append(entries, output.Entry("styles", output.LiteralArr(styles...)))
	}
	if directives := c.directives(decl, analysis.Ref); directives != nil {
		entries = append(entries, output.Entry("directives", directives))
	}
	if analysis.ChangeDetection != nil {
		entries = append(entries, output.Entry("changeDetection", analysis.ChangeDetection))
	}
	if analysis.Encapsulation != nil {
		entries = append(entries, output.Entry("encapsulation", analysis.Encapsulation))
	}

	return &CompileResult{
		Field:       c.target.ComponentField,
		Initializer: output.Call(output.Import(CoreModule, c.target.DefineComponent), output.LiteralMap(entries...)),
		Statements:  []output.Statement{factory},
	}, nil
}

// directives lists the compilation scope of the component, or nil when it has none
func (c *ComponentDecoratorHandler) directives(decl *host.ClassDeclaration, ref Reference) output.Expression {
	scope := c.scope.LookupCompilationScope(ref)
	if len(scope) == 0 {
		return nil
	}
	entries := make([]output.Expression, len(scope))
	for i, directive := range scope {
		entries[i] = referenceExpression(decl.SourceFile, directive.Ref)
	}
	return output.LiteralArr(entries...)
}

// componentID derives a stable id from the selector and template
func componentID(selector, template string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(selector+"\x00"+template)).String()
}
