package annotations

import (
	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/output"
)

// InjectFlags mirror the runtime's bit flags for ɵɵinject
type InjectFlags int

const (
	InjectDefault  InjectFlags = 0
	InjectHost     InjectFlags = 1
	InjectSelf     InjectFlags = 2
	InjectSkipSelf InjectFlags = 4
	InjectOptional InjectFlags = 8
)

// Dependency is one constructor parameter resolved to an injection token
type Dependency struct {
	Index int
	Token output.Expression // nil when the parameter has no usable token
	Flags InjectFlags
}

// resolveDependencies turns constructor parameters into injection tokens.
// A token comes from @Inject(TOKEN) or, failing that, the parameter type.
func resolveDependencies(h host.ReflectionHost, decl *host.ClassDeclaration) ([]Dependency, []Diagnostic) {
	params := h.GetConstructorParameters(decl)
	deps := make([]Dependency, 0, len(params))
	var diagnostics []Diagnostic

	for i, param := range params {
		dep := Dependency{Index: i}
		tokenValue := param.Type

		for j := range param.Decorators {
			d := &param.Decorators[j]
			switch {
			case d.ImportedFrom(CoreModule, "Inject"):
				if len(d.Args) != 1 {
					diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeDecoratorArityWrong, decl,
						"@Inject on parameter '%s' of %s must have exactly one argument", param.Name, decl.Name))
					continue
				}
				tokenValue = d.Args[0]
			case d.ImportedFrom(CoreModule, "Optional"):
				dep.Flags |= InjectOptional
			case d.ImportedFrom(CoreModule, "Self"):
				dep.Flags |= InjectSelf
			case d.ImportedFrom(CoreModule, "SkipSelf"):
				dep.Flags |= InjectSkipSelf
			case d.ImportedFrom(CoreModule, "Host"):
				dep.Flags |= InjectHost
			}
		}

		if tokenValue == nil {
			diagnostics = append(diagnostics, diagnostic(DiagnosticError, CodeParamMissingToken, decl,
				"no suitable injection token for parameter '%s' of class '%s'", param.Name, decl.Name))
		} else {
			dep.Token = valueExpression(h, decl.SourceFile, tokenValue)
		}
		deps = append(deps, dep)
	}
	return deps, diagnostics
}

// valueExpression turns a host value into an output expression. References
// rooted at an import become external expressions so the import manager
// aliases them; anything else is emitted as written.
func valueExpression(h host.ReflectionHost, sf *host.SourceFile, value host.Value) output.Expression {
	if expr := importedExpression(h, sf, value); expr != nil {
		return expr
	}
	return output.Wrapped(value)
}

// importedExpression rewrites an identifier or property chain whose root is
// imported. It returns nil for local references and other values.
func importedExpression(h host.ReflectionHost, sf *host.SourceFile, value host.Value) output.Expression {
	switch node := value.(type) {
	case *host.Identifier:
		imp := h.ResolveImport(sf, node.Name)
		if imp == nil {
			return nil
		}
		return output.Import(imp.Module, imp.Name)
	case *host.PropertyAccess:
		if root, ok := node.Receiver.(*host.Identifier); ok {
			if imp := h.ResolveImport(sf, root.Name+"."+node.Name); imp != nil {
				return output.Import(imp.Module, node.Name)
			}
		}
		receiver := importedExpression(h, sf, node.Receiver)
		if receiver == nil {
			return nil
		}
		return output.Prop(receiver, node.Name)
	default:
		return nil
	}
}

// injectCall builds the injection expression for one dependency
func injectCall(target Target, injectFn string, dep Dependency) output.Expression {
	if dep.Token == nil {
		return output.Call(output.Import(CoreModule, target.InvalidFactoryDep), output.Literal(dep.Index))
	}
	args := []output.Expression{dep.Token}
	if dep.Flags != InjectDefault {
		args = append(args, output.Literal(int(dep.Flags)))
	}
	return output.Call(output.Import(CoreModule, injectFn), args...)
}

// factoryFunctionName is the conventional name of a class factory
func factoryFunctionName(className string) string {
	return className + "_Factory"
}

// compileFactoryFunction builds
//
//	function Foo_Factory(t) { return new (t || Foo)(deps...); }
func compileFactoryFunction(target Target, injectFn, className string, deps []Dependency) *output.DeclareFunctionStmt {
	args := make([]output.Expression, len(deps))
	for i, dep := range deps {
		args[i] = injectCall(target, injectFn, dep)
	}
	ctor := output.Binary(output.Or, output.Variable("t"), output.Wrapped(className))
	return output.DeclareFunction(factoryFunctionName(className), []string{"t"},
		output.Return(output.New(ctor, args...)))
}
