package errors

import (
	"fmt"
	"strings"
)

// AmbiguousAnnotationError is raised when a class carries decorators claimed by more than one handler
type AmbiguousAnnotationError struct {
	*BaseError
	ClassName string
	Handlers  []string
}

// NewAmbiguousAnnotationError creates an error naming the class and every handler that claimed it
func NewAmbiguousAnnotationError(className string, handlers []string, loc SourceLocation) *AmbiguousAnnotationError {
	message := fmt.Sprintf("class '%s' has multiple Angular decorators (%s)", className, strings.Join(handlers, ", "))

	return &AmbiguousAnnotationError{
		BaseError: New(AmbiguousAnnotationErrorCode, message).
			WithLocation(loc).
			WithContext("class", className).
			WithContext("handlers", handlers).
			WithSuggestion("Keep exactly one of @Component, @Directive, @Injectable or @NgModule on the class"),
		ClassName: className,
		Handlers:  handlers,
	}
}

// CompilationError is raised when a handler declines or fails to produce a compiled definition
type CompilationError struct {
	*BaseError
	ClassName string
	Handler   string
}

// NewCompilationError creates a compilation error for a single class
func NewCompilationError(className, handler, reason string, loc SourceLocation) *CompilationError {
	message := fmt.Sprintf("cannot compile %s '%s': %s", handler, className, reason)

	return &CompilationError{
		BaseError: New(CompilationErrorCode, message).
			WithLocation(loc).
			WithContext("class", className).
			WithContext("handler", handler),
		ClassName: className,
		Handler:   handler,
	}
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *CompilationError) WithSuggestion(suggestion string) *CompilationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// NameResolutionError is raised when the reflected identifier of a declaration cannot be found
type NameResolutionError struct {
	*BaseError
	ClassName string
}

// NewNameResolutionError creates a name resolution failure for the given declaration
func NewNameResolutionError(className string, loc SourceLocation) *NameResolutionError {
	message := fmt.Sprintf("cannot resolve the identifier of class '%s'", className)

	return &NameResolutionError{
		BaseError: New(NameResolutionErrorCode, message).
			WithLocation(loc).
			WithContext("class", className).
			WithSuggestion("Anonymous class expressions cannot receive compiled definitions; give the class a name"),
		ClassName: className,
	}
}

// SyntaxError represents a source parsing failure
type SyntaxError struct {
	*BaseError
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string, loc SourceLocation) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithLocation(loc),
	}
}

// ClassOf returns the class a declaration-scoped error belongs to, or "" for other errors
func ClassOf(err CompilerError) string {
	if name, ok := err.Context()["class"].(string); ok {
		return name
	}
	return ""
}
