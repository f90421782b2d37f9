// Package transform renders compiled definitions into JavaScript text. The
// inline file path and the batch renderer share RenderDefinition and differ
// only in how they pick the identifier a definition is assigned to.
package transform

import (
	"strings"

	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/jsast"
	"github.com/toyz/ngcc/internal/output"
	"github.com/toyz/ngcc/internal/translator"
)

// NameStrategy picks the identifier a compiled definition is assigned to
type NameStrategy interface {
	Resolve(decl *host.ClassDeclaration, displayName string) (string, error)
}

// DirectName uses the identifier written on the declaration. The display
// name only labels the failure for anonymous classes.
type DirectName struct{}

func (DirectName) Resolve(decl *host.ClassDeclaration, displayName string) (string, error) {
	if decl != nil && decl.Name != "" {
		return decl.Name, nil
	}
	if displayName == "" {
		displayName = "<anonymous>"
	}
	return "", errors.NewNameResolutionError(displayName, location(decl))
}

// ReflectedName asks the reflection host for the identifier bound to the declaration
type ReflectedName struct {
	Host host.ReflectionHost
}

func (r ReflectedName) Resolve(decl *host.ClassDeclaration, displayName string) (string, error) {
	name := r.Host.ReflectIdentifierOfDeclaration(decl)
	if name == nil {
		if displayName == "" {
			displayName = "<anonymous>"
		}
		return "", errors.NewNameResolutionError(displayName, location(decl))
	}
	return *name, nil
}

func location(decl *host.ClassDeclaration) errors.SourceLocation {
	if decl == nil {
		return errors.SourceLocation{}
	}
	return decl.Location()
}

// RenderDefinition translates the supporting statements of compilation and the
// assignment name.field = initializer through im and prints them, one per line,
// in the quote style of sf
func RenderDefinition(sf *host.SourceFile, name string, compilation *annotations.CompileResult, im *translator.ImportManager, opts ...translator.Option) string {
	printer := jsast.NewPrinter()

	statements := make([]output.Statement, 0, len(compilation.Statements)+1)
	statements = append(statements, compilation.Statements...)
	statements = append(statements, output.ToStmt(
		output.Assign(output.Variable(name), compilation.Field, compilation.Initializer)))

	lines := make([]string, len(statements))
	for i, stmt := range statements {
		lines[i] = printer.Print(translator.TranslateStatement(stmt, im, opts...), sf)
	}
	return strings.Join(lines, "\n")
}
