package annotations

import (
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
	"github.com/toyz/ngcc/internal/utils"
)

// ProviderKind says how an injectable builds its instance
type ProviderKind int

const (
	ProvideConstructor ProviderKind = iota
	ProvideValue
	ProvideClass
	ProvideExisting
	ProvideFactory
)

// InjectableAnalysis is what the injectable handler extracts from @Injectable
type InjectableAnalysis struct {
	ProvidedIn output.Expression
	Kind       ProviderKind
	Provider   output.Expression // the useValue/useClass/useExisting/useFactory expression
	Deps       []Dependency      // constructor deps, or the explicit deps of useClass/useFactory
}

// InjectableDecoratorHandler compiles @Injectable classes into ɵprov definitions
type InjectableDecoratorHandler struct {
	host   host.ReflectionHost
	target Target
}

func NewInjectableDecoratorHandler(h host.ReflectionHost, target Target) *InjectableDecoratorHandler {
	return &InjectableDecoratorHandler{host: h, target: target}
}

func (i *InjectableDecoratorHandler) Name() string {
	return "Injectable"
}

func (i *InjectableDecoratorHandler) Detect(decorators []host.Decorator) *host.Decorator {
	return detectCoreDecorator(decorators, "Injectable")
}

func (i *InjectableDecoratorHandler) Analyze(decl *host.ClassDeclaration, d *host.Decorator) AnalysisOutput[*InjectableAnalysis] {
	meta, diagnostics := readMetadata(decl, d, true)
	if meta == nil {
		return AnalysisOutput[*InjectableAnalysis]{Diagnostics: diagnostics}
	}
	diagnostics = append(diagnostics, checkKeys(decl, d, meta,
		"providedIn", "useValue", "useClass", "useExisting", "useFactory", "deps")...)

	analysis := &InjectableAnalysis{}
	sf := decl.SourceFile

	providedIn, diags := i.providedIn(decl, meta)
	diagnostics = append(diagnostics, diags...)
	analysis.ProvidedIn = providedIn

	switch {
	case has(meta, "useValue"):
		v, _ := meta.Get("useValue")
		analysis.Kind = ProvideValue
		analysis.Provider = valueExpression(i.host, sf, v)
	case has(meta, "useExisting"):
		v, _ := meta.Get("useExisting")
		analysis.Kind = ProvideExisting
		analysis.Provider = valueExpression(i.host, sf, v)
	case has(meta, "useClass"), has(meta, "useFactory"):
		key := "useClass"
		analysis.Kind = ProvideClass
		if has(meta, "useFactory") {
			key = "useFactory"
			analysis.Kind = ProvideFactory
		}
		v, _ := meta.Get(key)
		analysis.Provider = valueExpression(i.host, sf, v)
		deps, diags := i.explicitDeps(decl, meta)
		diagnostics = append(diagnostics, diags...)
		analysis.Deps = deps
	default:
		analysis.Kind = ProvideConstructor
		deps, diags := resolveDependencies(i.host, decl)
		diagnostics = append(diagnostics, diags...)
		analysis.Deps = deps
	}

	return AnalysisOutput[*InjectableAnalysis]{Analysis: analysis, Diagnostics: diagnostics}
}

var providedInScopes = utils.IsOneOf("providedIn", "root", "platform", "any")

// providedIn accepts 'root', 'platform', 'any', null or a module reference
func (i *InjectableDecoratorHandler) providedIn(decl *host.ClassDeclaration, meta *host.ObjectLiteral) (output.Expression, []Diagnostic) {
	v, ok := meta.Get("providedIn")
	if !ok {
		return output.Literal(nil), nil
	}

	switch value := v.(type) {
	case *host.StringLiteral:
		if err := providedInScopes(value.Value); err != nil {
			return output.Literal(nil), []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
				"providedIn of '%s' must be 'root', 'platform', 'any' or a module, got '%s'", decl.Name, value.Value)}
		}
		return output.Literal(value.Value), nil
	case *host.NullLiteral:
		return output.Literal(nil), nil
	case *host.Identifier, *host.PropertyAccess:
		return valueExpression(i.host, decl.SourceFile, v), nil
	default:
		return output.Literal(nil), []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
			"providedIn of '%s' must be a string or a module reference, got %s", decl.Name, v.Text())}
	}
}

// explicitDeps reads the deps array of useClass/useFactory providers. Entries
// are either a token or an array of a token and flag decorators such as [Optional(), Token].
func (i *InjectableDecoratorHandler) explicitDeps(decl *host.ClassDeclaration, meta *host.ObjectLiteral) ([]Dependency, []Diagnostic) {
	v, ok := meta.Get("deps")
	if !ok {
		return nil, nil
	}
	arr, ok := v.(*host.ArrayLiteral)
	if !ok {
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
			"deps of '%s' must be an array", decl.Name)}
	}

	var diagnostics []Diagnostic
	deps := make([]Dependency, 0, len(arr.Elements))
	for index, el := range arr.Elements {
		dep := Dependency{Index: index}
		parts := []host.Value{el}
		if nested, isArray := el.(*host.ArrayLiteral); isArray {
			parts = nested.Elements
		}

		var token host.Value
		for _, part := range parts {
			if flag, isFlag := injectFlagOf(i.host, decl.SourceFile, part); isFlag {
				dep.Flags |= flag
				continue
			}
			token = part
		}
		if token == nil {
			diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeParamMissingToken, decl,
				"dependency %d of '%s' has no token", index, decl.Name))
		} else {
			dep.Token = valueExpression(i.host, decl.SourceFile, token)
		}
		deps = append(deps, dep)
	}
	return deps, diagnostics
}

// injectFlagOf recognizes Optional(), Self(), SkipSelf() and Host() imported from core
func injectFlagOf(h host.ReflectionHost, sf *host.SourceFile, v host.Value) (InjectFlags, bool) {
	call, ok := v.(*host.CallExpression)
	if !ok {
		return 0, false
	}
	name, ok := host.ReferenceName(call.Callee)
	if !ok {
		return 0, false
	}
	imp := h.ResolveImport(sf, name)
	if imp == nil || imp.Module != CoreModule {
		return 0, false
	}

	exported := imp.Name
	if imp.Namespace {
		exported = name[len(imp.Local)+1:]
	}
	switch exported {
	case "Optional":
		return InjectOptional, true
	case "Self":
		return InjectSelf, true
	case "SkipSelf":
		return InjectSkipSelf, true
	case "Host":
		return InjectHost, true
	}
	return 0, false
}

func (i *InjectableDecoratorHandler) Compile(decl *host.ClassDeclaration, analysis *InjectableAnalysis) (*CompileResult, error) {
	if analysis == nil {
		return nil, errors.NewCompilationError(decl.Name, i.Name(), "decorator metadata could not be analyzed", decl.Location())
	}

	var statements []output.Statement
	var factory output.Expression

	switch analysis.Kind {
	case ProvideConstructor:
		fn := compileFactoryFunction(i.target, i.target.Inject, decl.Name, analysis.Deps)
		statements = append(statements, fn)
		factory = output.Variable(fn.Name)
	case ProvideValue:
		factory = output.Fn("", nil, output.Return(analysis.Provider))
	case ProvideExisting:
		factory = output.Fn("", nil, output.Return(
			output.Call(output.Import(CoreModule, i.target.Inject), analysis.Provider)))
	case ProvideClass:
		factory = output.Fn("", nil, output.Return(output.New(analysis.Provider, i.injectAll(analysis.Deps)...)))
	case ProvideFactory:
		factory = output.Fn("", nil, output.Return(output.Call(analysis.Provider, i.injectAll(analysis.Deps)...)))
	}

	def := output.LiteralMap(
		output.Entry("token", output.Wrapped(decl.Name)),
		output.Entry("factory", factory),
		output.Entry("providedIn", analysis.ProvidedIn),
	)
	return &CompileResult{
		Field:       i.target.InjectableField,
		Initializer: output.Call(output.Import(CoreModule, i.target.DefineInjectable), def),
		Statements:  statements,
	}, nil
}

func (i *InjectableDecoratorHandler) injectAll(deps []Dependency) []output.Expression {
	args := make([]output.Expression, len(deps))
	for n, dep := range deps {
		args[n] = injectCall(i.target, i.target.Inject, dep)
	}
	return args
}

func has(meta *host.ObjectLiteral, key string) bool {
	_, ok := meta.Get(key)
	return ok
}
