package annotations

import (
	"path"
	"strings"
	"sync"

	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// Reference identifies an exported class across files. Module is either the
// extensionless path of a source file or a package specifier.
type Reference struct {
	Module   string
	Name     string
	FilePath bool
}

func (r Reference) key() string {
	return r.Module + "#" + r.Name
}

// ModuleData is the scope information an NgModule declares
type ModuleData struct {
	Declarations []Reference
	Imports      []Reference
	Exports      []Reference
}

// ScopedDirective is a directive or component visible in a compilation scope
type ScopedDirective struct {
	Ref      Reference
	Selector string
}

// SelectorScopeRegistry collects NgModule scopes and directive selectors across
// every file of a run so components can list the directives their templates may use.
type SelectorScopeRegistry struct {
	mu         sync.RWMutex
	modules    map[string]ModuleData
	declaredIn map[string]Reference
	selectors  map[string]string
}

// NewSelectorScopeRegistry creates an empty registry
func NewSelectorScopeRegistry() *SelectorScopeRegistry {
	return &SelectorScopeRegistry{
		modules:    make(map[string]ModuleData),
		declaredIn: make(map[string]Reference),
		selectors:  make(map[string]string),
	}
}

// RegisterModule records the scope of an NgModule
func (r *SelectorScopeRegistry) RegisterModule(module Reference, data ModuleData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[module.key()] = data
	for _, decl := range data.Declarations {
		r.declaredIn[decl.key()] = module
	}
}

// RegisterSelector records the selector of a directive or component
func (r *SelectorScopeRegistry) RegisterSelector(ref Reference, selector string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selectors[ref.key()] = selector
}

// LookupCompilationScope returns the directives visible to the template of ref:
// the declarations of its NgModule followed by everything exported by the
// modules it imports. The result is nil when no module declares ref.
func (r *SelectorScopeRegistry) LookupCompilationScope(ref Reference) []ScopedDirective {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module, ok := r.declaredIn[ref.key()]
	if !ok {
		return nil
	}
	data := r.modules[module.key()]

	var scope []ScopedDirective
	seen := make(map[string]bool)
	add := func(candidate Reference) {
		selector, isDirective := r.selectors[candidate.key()]
		if !isDirective || seen[candidate.key()] {
			return
		}
		seen[candidate.key()] = true
		scope = append(scope, ScopedDirective{Ref: candidate, Selector: selector})
	}

	for _, decl := range data.Declarations {
		add(decl)
	}
	visited := make(map[string]bool)
	for _, imported := range data.Imports {
		for _, exported := range r.exportedFrom(imported, visited) {
			add(exported)
		}
	}
	return scope
}

// exportedFrom flattens the exports of module, following re-exported modules
func (r *SelectorScopeRegistry) exportedFrom(module Reference, visited map[string]bool) []Reference {
	if visited[module.key()] {
		return nil
	}
	visited[module.key()] = true

	data, ok := r.modules[module.key()]
	if !ok {
		return nil
	}
	var result []Reference
	for _, exported := range data.Exports {
		if _, isModule := r.modules[exported.key()]; isModule {
			result = append(result, r.exportedFrom(exported, visited)...)
			continue
		}
		result = append(result, exported)
	}
	return result
}

// localReference is the reference for a class declared in sf
func localReference(sf *host.SourceFile, name string) Reference {
	return Reference{Module: sf.ModuleName(), Name: name, FilePath: true}
}

// resolveReference follows an identifier in sf to the class it names
func resolveReference(h host.ReflectionHost, sf *host.SourceFile, value host.Value) (Reference, bool) {
	name, ok := host.ReferenceName(value)
	if !ok {
		return Reference{}, false
	}

	imp := h.ResolveImport(sf, name)
	if imp == nil {
		if strings.Contains(name, ".") {
			return Reference{}, false
		}
		return localReference(sf, name), true
	}

	exported := imp.Name
	if imp.Namespace {
		exported = name[strings.IndexByte(name, '.')+1:]
	}
	if host.IsRelativeSpecifier(imp.Module) {
		return Reference{Module: host.ResolveSpecifier(sf, imp.Module), Name: exported, FilePath: true}, true
	}
	return Reference{Module: imp.Module, Name: exported}, true
}

// referenceExpression builds an expression that reaches ref from code emitted into sf
func referenceExpression(sf *host.SourceFile, ref Reference) output.Expression {
	if !ref.FilePath {
		return output.Import(ref.Module, ref.Name)
	}
	from := sf.ModuleName()
	if ref.Module == from {
		return output.Variable(ref.Name)
	}
	return output.Import(host.RelativeSpecifier(path.Dir(from), ref.Module), ref.Name)
}
