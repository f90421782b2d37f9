package host

import "strings"

// ReflectionHost answers questions about declarations without the core having to
// understand the source syntax
type ReflectionHost interface {
	// ReflectIdentifierOfDeclaration returns the identifier the class is bound to,
	// or nil when the declaration has none
	ReflectIdentifierOfDeclaration(decl *ClassDeclaration) *string

	// ResolveImport finds the import that binds identifier in sf. Dotted
	// identifiers resolve through namespace imports.
	ResolveImport(sf *SourceFile, identifier string) *Import

	// GetConstructorParameters returns the parameters of the class constructor
	GetConstructorParameters(decl *ClassDeclaration) []Parameter
}

// Esm2015ReflectionHost reflects over declarations produced by the file parser
type Esm2015ReflectionHost struct{}

// NewReflectionHost creates the default reflection host
func NewReflectionHost() *Esm2015ReflectionHost {
	return &Esm2015ReflectionHost{}
}

// ReflectIdentifierOfDeclaration returns the class name when the class has one
func (h *Esm2015ReflectionHost) ReflectIdentifierOfDeclaration(decl *ClassDeclaration) *string {
	if decl == nil || decl.Name == "" {
		return nil
	}
	name := decl.Name
	return &name
}

// ResolveImport resolves identifier against the import declarations of sf
func (h *Esm2015ReflectionHost) ResolveImport(sf *SourceFile, identifier string) *Import {
	if sf == nil || identifier == "" {
		return nil
	}

	local := identifier
	namespaced := false
	if i := strings.IndexByte(identifier, '.'); i >= 0 {
		local = identifier[:i]
		namespaced = true
	}

	for i := range sf.Imports {
		imp := &sf.Imports[i]
		if imp.Local != local {
			continue
		}
		if namespaced != imp.Namespace {
			return nil
		}
		return imp
	}
	return nil
}

// GetConstructorParameters returns the constructor parameters, or nil for classes without one
func (h *Esm2015ReflectionHost) GetConstructorParameters(decl *ClassDeclaration) []Parameter {
	if decl == nil || !decl.HasCtor {
		return nil
	}
	return decl.Constructor
}
