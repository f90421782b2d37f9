// Package analyzer runs decorator handlers over the classes of parsed files
// and renders their compiled definitions.
package analyzer

import (
	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/transform"
	"github.com/toyz/ngcc/internal/translator"
)

// AnalyzedClass is a class that exactly one handler claimed, analyzed and compiled
type AnalyzedClass struct {
	Name         string
	Declaration  *host.ClassDeclaration
	Handler      annotations.Handler
	Analysis     any
	Diagnostics  []annotations.Diagnostic
	Compilation  *annotations.CompileResult
	RenderedText string
}

// AnalyzedFile collects the analyzed classes of one file in source order
// together with the imports their rendered text refers to
type AnalyzedFile struct {
	SourceFile      *host.SourceFile
	AnalyzedClasses []*AnalyzedClass
	Imports         []translator.ImportAlias
}

// Diagnostics returns the diagnostics of every class in the file
func (f *AnalyzedFile) Diagnostics() []annotations.Diagnostic {
	var all []annotations.Diagnostic
	for _, c := range f.AnalyzedClasses {
		all = append(all, c.Diagnostics...)
	}
	return all
}

// Options configures the default handler set
type Options struct {
	Target annotations.Target
	Scope  *annotations.SelectorScopeRegistry
	Loader annotations.ResourceLoader
}

// DefaultHandlers returns the Component, Directive, Injectable and NgModule
// handlers in detection order. A nil scope gets a fresh registry.
func DefaultHandlers(h host.ReflectionHost, opts Options) []annotations.Handler {
	scope := opts.Scope
	if scope == nil {
		scope = annotations.NewSelectorScopeRegistry()
	}
	target := opts.Target
	if target.ComponentField == "" {
		target = annotations.DefaultTarget()
	}

	return []annotations.Handler{
		annotations.Erase[*annotations.ComponentAnalysis](annotations.NewComponentDecoratorHandler(h, scope, target, opts.Loader)),
		annotations.Erase[*annotations.DirectiveAnalysis](annotations.NewDirectiveDecoratorHandler(h, scope, target)),
		annotations.Erase[*annotations.InjectableAnalysis](annotations.NewInjectableDecoratorHandler(h, target)),
		annotations.Erase[*annotations.NgModuleAnalysis](annotations.NewNgModuleDecoratorHandler(h, scope, target)),
	}
}

// Analyzer dispatches classes to handlers and renders the result inline
type Analyzer struct {
	host     host.ReflectionHost
	registry *HandlerRegistry
	naming   transform.NameStrategy
}

// NewAnalyzer creates an analyzer over handlers, evaluated in the given order
func NewAnalyzer(h host.ReflectionHost, handlers ...annotations.Handler) (*Analyzer, error) {
	registry, err := NewHandlerRegistry(handlers...)
	if err != nil {
		return nil, errors.WrapConfigurationError("handlers", "register", err)
	}
	return &Analyzer{host: h, registry: registry, naming: transform.DirectName{}}, nil
}

// NewDefaultAnalyzer creates an analyzer with the default handler set
func NewDefaultAnalyzer(h host.ReflectionHost, opts Options) *Analyzer {
	a, err := NewAnalyzer(h, DefaultHandlers(h, opts)...)
	if err != nil {
		// the default handler names are distinct
		panic(err)
	}
	return a
}

// Registry exposes the handler registry
func (a *Analyzer) Registry() *HandlerRegistry {
	return a.registry
}

// AnalyzeClass analyzes, compiles and renders one class. It returns nil and no
// error when no handler claims the class.
func (a *Analyzer) AnalyzeClass(sf *host.SourceFile, class *host.DecoratedClass, im *translator.ImportManager) (*AnalyzedClass, error) {
	detection, err := a.registry.Detect(class)
	if err != nil || detection == nil {
		return nil, err
	}

	decl := class.Declaration
	handler := detection.Handler
	out := handler.Analyze(decl, detection.Decorator)

	compilation, err := handler.Compile(decl, out.Analysis)
	if err != nil {
		return nil, compileFailure(class, handler, err, out.Diagnostics)
	}

	name, err := a.naming.Resolve(decl, class.Name)
	if err != nil {
		return nil, err
	}

	return &AnalyzedClass{
		Name:         class.Name,
		Declaration:  decl,
		Handler:      handler,
		Analysis:     out.Analysis,
		Diagnostics:  out.Diagnostics,
		Compilation:  compilation,
		RenderedText: transform.RenderDefinition(sf, name, compilation, im),
	}, nil
}

// compileFailure keeps typed compiler errors and turns anything else into a
// CompilationError for the class
func compileFailure(class *host.DecoratedClass, handler annotations.Handler, err error, diagnostics []annotations.Diagnostic) error {
	var compErr *errors.CompilationError
	if !errors.As(err, &compErr) {
		compErr = errors.NewCompilationError(class.Name, handler.Name(), err.Error(), class.Declaration.Location())
		compErr.WithCause(err)
	}
	if len(diagnostics) > 0 {
		compErr.WithContext(diagnosticsKey, diagnostics)
	}
	return compErr
}

const diagnosticsKey = "diagnostics"

// FailureDiagnostics returns the analysis diagnostics recorded on the failure
// of a class, or nil when err carries none
func FailureDiagnostics(err errors.CompilerError) []annotations.Diagnostic {
	if err == nil {
		return nil
	}
	diagnostics, _ := err.Context()[diagnosticsKey].([]annotations.Diagnostic)
	return diagnostics
}

// AnalyzeFile analyzes every decorated class of file in source order with one
// import manager. Failed classes are collected into a MultipleErrors returned
// next to the partial result.
func (a *Analyzer) AnalyzeFile(file *host.ParsedFile) (*AnalyzedFile, error) {
	im := translator.NewImportManager()
	result := &AnalyzedFile{SourceFile: file.SourceFile}

	var errs *errors.MultipleErrors
	for _, class := range file.DecoratedClasses {
		analyzed, err := a.AnalyzeClass(file.SourceFile, class, im)
		if err != nil {
			errors.AddToMultiple(&errs, err)
			continue
		}
		if analyzed != nil {
			result.AnalyzedClasses = append(result.AnalyzedClasses, analyzed)
		}
	}

	result.Imports = im.GetAllImports()
	return result, errs.ErrorOrNil()
}
