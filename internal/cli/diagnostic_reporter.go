package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/ngcc/internal/analyzer"
	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
)

// DiagnosticReporter prints analysis diagnostics and compiler errors for users
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporterTo creates a reporter writing to out
func NewDiagnosticReporterTo(verbose bool, out io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

// ReportDiagnostic prints one analysis finding as location, category, code and message
func (r *DiagnosticReporter) ReportDiagnostic(d annotations.Diagnostic) {
	marker := color.New(color.FgYellow, color.Bold)
	if d.Category == annotations.DiagnosticError {
		marker = color.New(color.FgRed, color.Bold)
	}
	marker.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s - %s\n", d.Location, d)
}

// ReportDiagnostics prints findings sorted by position
func (r *DiagnosticReporter) ReportDiagnostics(diagnostics []annotations.Diagnostic) {
	sorted := append([]annotations.Diagnostic(nil), diagnostics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Location, sorted[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	for _, d := range sorted {
		r.ReportDiagnostic(d)
	}
}

// ReportError prints err with its location, context and suggestions. Every
// entry of a MultipleErrors is reported on its own.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var many *errors.MultipleErrors
	if errors.As(err, &many) {
		for _, e := range many.Errors {
			r.reportCompilerError(e)
		}
		return
	}
	r.reportCompilerError(errors.AsCompilerError(err))
}

func (r *DiagnosticReporter) reportCompilerError(err errors.CompilerError) {
	title := errorTitle(err.ErrorCode())
	color.New(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: %s\n", title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)+7))

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc)
	}
	fmt.Fprintf(r.out, "Message: %s\n", messageOf(err))

	if diagnostics := analyzer.FailureDiagnostics(err); len(diagnostics) > 0 {
		fmt.Fprintf(r.out, "Diagnostics:\n")
		r.ReportDiagnostics(diagnostics)
	}

	if r.verbose {
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(r.out, "Underlying cause: %s\n", cause)
		}
		r.printContext(err.Context())
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

func messageOf(err errors.CompilerError) string {
	loc := err.Location()
	if loc.IsEmpty() {
		return err.Error()
	}
	return strings.TrimPrefix(err.Error(), loc.String()+": ")
}

func errorTitle(code errors.ErrorCode) string {
	switch code {
	case errors.SyntaxErrorCode:
		return "Syntax Error"
	case errors.AmbiguousAnnotationErrorCode:
		return "Ambiguous Decorators"
	case errors.CompilationErrorCode:
		return "Compilation Error"
	case errors.NameResolutionErrorCode:
		return "Name Resolution Failure"
	case errors.FileSystemErrorCode:
		return "File System Error"
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}
	keys := make([]string, 0, len(context))
	for key := range context {
		if _, listed := context[key].([]annotations.Diagnostic); listed {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
}

// CompilationSummary describes the outcome of a compile run
type CompilationSummary struct {
	FilesScanned    int
	FilesCompiled   int
	ClassesCompiled int
	Warnings        int
	Errors          int
	OutputFiles     []string
}

// Stats returns the summary in the shape DiagnosticSystem.Summary prints
func (s CompilationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":    s.FilesScanned,
		"Files compiled":   s.FilesCompiled,
		"Classes compiled": s.ClassesCompiled,
		"Warnings":         s.Warnings,
		"Errors":           s.Errors,
	}
}
