package annotations

import (
	"fmt"

	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// CoreModule is the module every recognized decorator must be imported from
const CoreModule = "@angular/core"

// DiagnosticCategory mirrors the severity levels reported to users
type DiagnosticCategory int

const (
	DiagnosticError DiagnosticCategory = iota
	DiagnosticWarning
	DiagnosticMessage
)

func (c DiagnosticCategory) String() string {
	switch c {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	default:
		return "message"
	}
}

// Diagnostic codes
const (
	CodeDecoratorArgNotLiteral = 1001 + iota
	CodeDecoratorArityWrong
	CodeUnknownMetadataKey
	CodeValueHasWrongType
	CodeMissingSelector
	CodeUnsupportedSelector
	CodeTemplateConflict
	CodeResourceNotFound
	CodeParamMissingToken
	CodeUnresolvedReference
)

// Diagnostic is a non-fatal finding produced during analysis
type Diagnostic struct {
	Category DiagnosticCategory    `json:"category"`
	Code     int                   `json:"code"`
	Message  string                `json:"message"`
	Location errors.SourceLocation `json:"location"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s NG%d: %s", d.Category, d.Code, d.Message)
}

// AnalysisOutput is what a handler's Analyze step produces
type AnalysisOutput[A any] struct {
	Analysis    A
	Diagnostics []Diagnostic
}

// CompileResult is the compiled definition of one class: the static field it
// assigns, the initializer for that field and any supporting statements that
// must be emitted before the assignment
type CompileResult struct {
	Field       string
	Initializer output.Expression
	Statements  []output.Statement
}

// DecoratorHandler detects, analyzes and compiles classes carrying one kind of decorator.
// A is the handler's own analysis shape; the core never inspects it.
type DecoratorHandler[A any] interface {
	Name() string
	Detect(decorators []host.Decorator) *host.Decorator
	Analyze(decl *host.ClassDeclaration, decorator *host.Decorator) AnalysisOutput[A]
	Compile(decl *host.ClassDeclaration, analysis A) (*CompileResult, error)
}

// Handler is a DecoratorHandler with its analysis type erased so handlers of
// different kinds can live in one registry
type Handler interface {
	Name() string
	Detect(decorators []host.Decorator) *host.Decorator
	Analyze(decl *host.ClassDeclaration, decorator *host.Decorator) AnalysisOutput[any]
	Compile(decl *host.ClassDeclaration, analysis any) (*CompileResult, error)
}

// Erase adapts a typed handler to the Handler interface
func Erase[A any](h DecoratorHandler[A]) Handler {
	return erased[A]{inner: h}
}

type erased[A any] struct {
	inner DecoratorHandler[A]
}

func (e erased[A]) Name() string {
	return e.inner.Name()
}

func (e erased[A]) Detect(decorators []host.Decorator) *host.Decorator {
	return e.inner.Detect(decorators)
}

func (e erased[A]) Analyze(decl *host.ClassDeclaration, decorator *host.Decorator) AnalysisOutput[any] {
	out := e.inner.Analyze(decl, decorator)
	return AnalysisOutput[any]{Analysis: out.Analysis, Diagnostics: out.Diagnostics}
}

func (e erased[A]) Compile(decl *host.ClassDeclaration, analysis any) (*CompileResult, error) {
	typed, ok := analysis.(A)
	if !ok {
		return nil, errors.NewCompilationError(decl.Name, e.inner.Name(),
			fmt.Sprintf("analysis result has unexpected type %T", analysis), decl.Location())
	}
	return e.inner.Compile(decl, typed)
}

// detectCoreDecorator returns the first decorator imported as name from @angular/core
func detectCoreDecorator(decorators []host.Decorator, name string) *host.Decorator {
	for i := range decorators {
		if decorators[i].ImportedFrom(CoreModule, name) {
			return &decorators[i]
		}
	}
	return nil
}

func diagnostic(category DiagnosticCategory, code int, decl *host.ClassDeclaration, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Category: category,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: decl.Location(),
	}
}
