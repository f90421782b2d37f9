package translator

import (
	"fmt"
	"strings"

	"github.com/toyz/ngcc/internal/host"
)

// ImportAlias is one namespace import required by translated code
type ImportAlias struct {
	ModuleSpecifier string `json:"moduleSpecifier"`
	LocalName       string `json:"localName"`
}

// ImportManager hands out stable namespace aliases for module specifiers.
// An instance is scoped to one file (inline path) or one batch (renderer path)
// and is never shared across scopes.
type ImportManager struct {
	prefix  string
	aliases map[string]string // module specifier -> alias
	order   []string
}

// NewImportManager creates an import manager using the i0, i1, ... alias scheme
func NewImportManager() *ImportManager {
	return NewImportManagerWithPrefix("i")
}

// NewImportManagerWithPrefix creates an import manager with a custom alias prefix
func NewImportManagerWithPrefix(prefix string) *ImportManager {
	return &ImportManager{
		prefix:  prefix,
		aliases: make(map[string]string),
		order:   make([]string, 0),
	}
}

// GenerateNamedImport returns the alias bound to moduleSpecifier, allocating the
// next one the first time the module is requested
func (im *ImportManager) GenerateNamedImport(moduleSpecifier string) string {
	if alias, exists := im.aliases[moduleSpecifier]; exists {
		return alias
	}
	alias := fmt.Sprintf("%s%d", im.prefix, len(im.order))
	im.aliases[moduleSpecifier] = alias
	im.order = append(im.order, moduleSpecifier)
	return alias
}

// GetAllImports returns every alias in first-requested order
func (im *ImportManager) GetAllImports() []ImportAlias {
	imports := make([]ImportAlias, len(im.order))
	for i, module := range im.order {
		imports[i] = ImportAlias{ModuleSpecifier: module, LocalName: im.aliases[module]}
	}
	return imports
}

// Len returns the number of distinct modules requested so far
func (im *ImportManager) Len() int {
	return len(im.order)
}

// RenderImports renders the alias list as a block of namespace import
// statements, quoted in the style of sf
func RenderImports(imports []ImportAlias, sf *host.SourceFile) string {
	if len(imports) == 0 {
		return ""
	}

	q := `"`
	if sf != nil && sf.SingleQuote {
		q = `'`
	}

	var result strings.Builder
	for _, imp := range imports {
		result.WriteString(fmt.Sprintf("import * as %s from %s%s%s;\n", imp.LocalName, q, imp.ModuleSpecifier, q))
	}
	return result.String()
}
