package annotations

import (
	"strings"

	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// readMetadata returns the object literal passed to a class decorator. A
// decorator without arguments yields an empty literal when allowEmpty is set.
func readMetadata(decl *host.ClassDeclaration, d *host.Decorator, allowEmpty bool) (*host.ObjectLiteral, []Diagnostic) {
	switch len(d.Args) {
	case 0:
		if allowEmpty {
			return &host.ObjectLiteral{}, nil
		}
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeDecoratorArityWrong, decl,
			"@%s on class '%s' requires a metadata argument", d.Name, decl.Name)}
	case 1:
	default:
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeDecoratorArityWrong, decl,
			"@%s on class '%s' takes a single metadata argument, got %d", d.Name, decl.Name, len(d.Args))}
	}

	meta, ok := d.Args[0].(*host.ObjectLiteral)
	if !ok {
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeDecoratorArgNotLiteral, decl,
			"@%s argument on class '%s' must be an object literal", d.Name, decl.Name)}
	}
	return meta, nil
}

// checkKeys reports every metadata key outside known as a warning
func checkKeys(decl *host.ClassDeclaration, d *host.Decorator, meta *host.ObjectLiteral, known ...string) []Diagnostic {
	allowed := make(map[string]bool, len(known))
	for _, k := range known {
		allowed[k] = true
	}

	var diagnostics []Diagnostic
	for _, key := range meta.Keys() {
		if !allowed[key] {
			diagnostics = append(diagnostics, diagnostic(DiagnosticWarning, CodeUnknownMetadataKey, decl,
				"unknown key '%s' in @%s metadata of '%s'", key, d.Name, decl.Name))
		}
	}
	return diagnostics
}

// readString reads an optional string property
func readString(decl *host.ClassDeclaration, meta *host.ObjectLiteral, key string) (string, bool, []Diagnostic) {
	v, ok := meta.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := host.StringValue(v)
	if !ok {
		return "", false, []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
			"'%s' of '%s' must be a string literal, got %s", key, decl.Name, v.Text())}
	}
	return s, true, nil
}

// readStringArray reads an optional array of string literals
func readStringArray(decl *host.ClassDeclaration, meta *host.ObjectLiteral, key string) ([]string, []Diagnostic) {
	v, ok := meta.Get(key)
	if !ok {
		return nil, nil
	}
	values, ok := host.StringArray(v)
	if !ok {
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
			"'%s' of '%s' must be an array of string literals", key, decl.Name)}
	}
	return values, nil
}

// readReferences reads an optional array of class references
func readReferences(decl *host.ClassDeclaration, meta *host.ObjectLiteral, key string) ([]host.Value, []Diagnostic) {
	v, ok := meta.Get(key)
	if !ok {
		return nil, nil
	}
	arr, ok := v.(*host.ArrayLiteral)
	if !ok {
		return nil, []Diagnostic{diagnostic(DiagnosticError, CodeValueHasWrongType, decl,
			"'%s' of '%s' must be an array", key, decl.Name)}
	}

	var diagnostics []Diagnostic
	refs := make([]host.Value, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		if _, isRef := host.ReferenceName(el); !isRef {
			if _, isCall := el.(*host.CallExpression); !isCall {
				diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeUnresolvedReference, decl,
					"'%s' of '%s' contains %s, which is not a class reference", key, decl.Name, el.Text()))
				continue
			}
		}
		refs = append(refs, el)
	}
	return refs, diagnostics
}

// BindingProperty maps a class property to its public binding name
type BindingProperty struct {
	Property string
	Public   string
}

// parseBindings reads "prop" and "prop: alias" entries of inputs/outputs
func parseBindings(entries []string) []BindingProperty {
	bindings := make([]BindingProperty, 0, len(entries))
	for _, entry := range entries {
		property, public, aliased := strings.Cut(entry, ":")
		property = strings.TrimSpace(property)
		if aliased {
			public = strings.TrimSpace(public)
		} else {
			public = property
		}
		bindings = append(bindings, BindingProperty{Property: property, Public: public})
	}
	return bindings
}

// bindingsExpression builds { property: 'public' }
func bindingsExpression(bindings []BindingProperty) output.Expression {
	entries := make([]output.LiteralMapEntry, len(bindings))
	for i, b := range bindings {
		entries[i] = output.Entry(b.Property, output.Literal(b.Public))
	}
	return output.LiteralMap(entries...)
}

// referenceTarget strips a ModuleWithProviders call such as RouterModule.forRoot()
// down to the module reference it is invoked on
func referenceTarget(v host.Value) host.Value {
	call, ok := v.(*host.CallExpression)
	if !ok {
		return v
	}
	if access, ok := call.Callee.(*host.PropertyAccess); ok {
		return access.Receiver
	}
	return call.Callee
}

// referenceList converts class references into an array expression
func referenceList(h host.ReflectionHost, sf *host.SourceFile, refs []host.Value) output.Expression {
	entries := make([]output.Expression, len(refs))
	for i, ref := range refs {
		entries[i] = valueExpression(h, sf, ref)
	}
	return output.LiteralArr(entries...)
}

func hasErrors(diagnostics []Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Category == DiagnosticError {
			return true
		}
	}
	return false
}
