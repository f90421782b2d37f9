package host

import (
	"path/filepath"
	"strings"

	"github.com/toyz/ngcc/internal/errors"
)

// SourceFile is a parsed input file together with the text it was parsed from
type SourceFile struct {
	FileName string
	Text     string
	Imports  []Import

	// SingleQuote records the quote style preferred by the file so printed
	// output blends in with the surrounding source.
	SingleQuote bool
}

// ModuleName returns the extensionless, slash-separated path of the file
func (sf *SourceFile) ModuleName() string {
	name := filepath.ToSlash(sf.FileName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Import is a single imported binding: import { Name as Local } from 'Module'.
// Namespace imports (import * as Local from 'Module') leave Name empty.
type Import struct {
	Name      string
	Local     string
	Module    string
	Namespace bool
}

// Position is a 1-based location inside a source file
type Position struct {
	Line   int
	Column int
}

// Decorator is a single decorator application such as @Component({...})
type Decorator struct {
	Name       string  // identifier as written, e.g. Component or core.Component
	Identifier string  // the local binding the decorator refers to
	Import     *Import // resolved import, nil if the identifier is local
	Args       []Value
	Pos        Position
}

// ImportedFrom reports whether the decorator was imported as name from module
func (d *Decorator) ImportedFrom(module, name string) bool {
	if d.Import == nil || d.Import.Module != module {
		return false
	}
	if d.Import.Namespace {
		return d.Name == d.Import.Local+"."+name
	}
	return d.Import.Name == name
}

// Parameter is a constructor parameter
type Parameter struct {
	Name       string
	Type       Value // Identifier or PropertyAccess, nil when untyped
	Decorators []Decorator
	Pos        Position
}

// ClassDeclaration is the reflected shape of a class
type ClassDeclaration struct {
	Name        string // empty for anonymous class expressions
	Exported    bool
	Extends     string
	Constructor []Parameter
	HasCtor     bool
	Pos         Position
	SourceFile  *SourceFile
}

// Location converts the declaration position into an error location
func (c *ClassDeclaration) Location() errors.SourceLocation {
	loc := errors.SourceLocation{Line: c.Pos.Line, Column: c.Pos.Column}
	if c.SourceFile != nil {
		loc.File = c.SourceFile.FileName
	}
	return loc
}

// DecoratedClass is a class declaration with its recognized decorators and display name
type DecoratedClass struct {
	Name        string
	Declaration *ClassDeclaration
	Decorators  []Decorator
}

// ParsedFile is the output of the file parser
type ParsedFile struct {
	SourceFile       *SourceFile
	DecoratedClasses []*DecoratedClass
}
