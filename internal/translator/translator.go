package translator

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/toyz/ngcc/internal/host"
	"github.com/toyz/ngcc/internal/jsast"
	"github.com/toyz/ngcc/internal/output"
)

// Option adjusts a single translation
type Option func(*translator)

// WithModuleRewriter passes every external module specifier through rewrite
// before an alias is requested for it
func WithModuleRewriter(rewrite func(specifier string) string) Option {
	return func(t *translator) {
		t.rewrite = rewrite
	}
}

// TranslateStatement converts an output statement into a printable node,
// requesting an import alias from im for every external reference it meets
func TranslateStatement(stmt output.Statement, im *ImportManager, opts ...Option) jsast.Stmt {
	return newTranslator(im, opts).stmt(stmt)
}

// TranslateExpression converts a single output expression
func TranslateExpression(expr output.Expression, im *ImportManager, opts ...Option) jsast.Expr {
	return newTranslator(im, opts).expr(expr)
}

type translator struct {
	imports *ImportManager
	rewrite func(string) string
}

func newTranslator(im *ImportManager, opts []Option) *translator {
	t := &translator{imports: im}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *translator) module(specifier string) string {
	if t.rewrite == nil {
		return specifier
	}
	return t.rewrite(specifier)
}

func (t *translator) stmt(stmt output.Statement) jsast.Stmt {
	switch s := stmt.(type) {
	case *output.ExpressionStatement:
		return &jsast.ExprStmt{Expr: t.expr(s.Expr)}
	case *output.ReturnStatement:
		if s.Value == nil {
			return &jsast.Return{}
		}
		return &jsast.Return{Value: t.expr(s.Value)}
	case *output.DeclareVarStmt:
		kind := "let"
		if s.Final {
			kind = "const"
		}
		decl := &jsast.VarDecl{Kind: kind, Name: s.Name}
		if s.Value != nil {
			decl.Init = t.expr(s.Value)
		}
		return decl
	case *output.DeclareFunctionStmt:
		return &jsast.FunctionDecl{Name: s.Name, Params: s.Params, Body: t.stmts(s.Statements)}
	default:
		panic(fmt.Sprintf("translator: unsupported statement %T", stmt))
	}
}

func (t *translator) stmts(stmts []output.Statement) []jsast.Stmt {
	result := make([]jsast.Stmt, len(stmts))
	for i, s := range stmts {
		result[i] = t.stmt(s)
	}
	return result
}

func (t *translator) exprs(exprs []output.Expression) []jsast.Expr {
	result := make([]jsast.Expr, len(exprs))
	for i, e := range exprs {
		result[i] = t.expr(e)
	}
	return result
}

func (t *translator) expr(expr output.Expression) jsast.Expr {
	switch e := expr.(type) {
	case *output.ReadVarExpr:
		return &jsast.Identifier{Name: e.Name}
	case *output.ExternalExpr:
		alias := t.imports.GenerateNamedImport(t.module(e.Module))
		return &jsast.PropertyAccess{Expr: &jsast.Identifier{Name: alias}, Name: e.Name}
	case *output.LiteralExpr:
		return literal(e.Value)
	case *output.LiteralArrayExpr:
		return &jsast.ArrayLit{Elements: t.exprs(e.Entries)}
	case *output.LiteralMapExpr:
		props := make([]jsast.ObjectProp, len(e.Entries))
		for i, entry := range e.Entries {
			props[i] = jsast.ObjectProp{Key: entry.Key, Value: t.expr(entry.Value), Quoted: entry.Quoted}
		}
		return &jsast.ObjectLit{Props: props}
	case *output.ReadPropExpr:
		return &jsast.PropertyAccess{Expr: t.expr(e.Receiver), Name: e.Name}
	case *output.WritePropExpr:
		return &jsast.Assign{
			Target: &jsast.PropertyAccess{Expr: t.expr(e.Receiver), Name: e.Name},
			Value:  t.expr(e.Value),
		}
	case *output.InvokeFunctionExpr:
		return &jsast.Call{Callee: t.expr(e.Fn), Args: t.exprs(e.Args)}
	case *output.InstantiateExpr:
		return &jsast.New{Callee: t.expr(e.ClassExpr), Args: t.exprs(e.Args)}
	case *output.BinaryOperatorExpr:
		return &jsast.Binary{Op: string(e.Operator), Left: t.expr(e.Lhs), Right: t.expr(e.Rhs)}
	case *output.FunctionExpr:
		return &jsast.FunctionExpr{Name: e.Name, Params: e.Params, Body: t.stmts(e.Statements)}
	case *output.WrappedNodeExpr:
		return wrapped(e.Node)
	default:
		panic(fmt.Sprintf("translator: unsupported expression %T", expr))
	}
}

func literal(value any) jsast.Expr {
	switch v := value.(type) {
	case nil:
		return &jsast.NullLit{}
	case string:
		return &jsast.StringLit{Value: v}
	case bool:
		return &jsast.BoolLit{Value: v}
	case int:
		return &jsast.NumberLit{Raw: strconv.Itoa(v)}
	case int64:
		return &jsast.NumberLit{Raw: strconv.FormatInt(v, 10)}
	case float64:
		return &jsast.NumberLit{Raw: strconv.FormatFloat(v, 'f', -1, 64)}
	default:
		panic(fmt.Sprintf("translator: unsupported literal %T", value))
	}
}

// wrapped passes host nodes through. Identifiers stay unaliased because the
// compiled definition is emitted into the file that already imports them.
func wrapped(node any) jsast.Expr {
	switch n := node.(type) {
	case string:
		return &jsast.Identifier{Name: n}
	case *host.StringLiteral:
		if n.Template {
			return &jsast.TemplateLit{Raw: n.Value}
		}
		return &jsast.StringLit{Value: n.Value}
	case *host.NumberLiteral:
		return &jsast.NumberLit{Raw: n.Raw}
	case *host.BoolLiteral:
		return &jsast.BoolLit{Value: n.Value}
	case *host.NullLiteral:
		if n.Undefined {
			return &jsast.UndefinedLit{}
		}
		return &jsast.NullLit{}
	case *host.Identifier:
		return &jsast.Identifier{Name: n.Name}
	case *host.PropertyAccess:
		return &jsast.PropertyAccess{Expr: wrapped(n.Receiver), Name: n.Name}
	case *host.CallExpression:
		args := make([]jsast.Expr, len(n.Args))
		for i, arg := range n.Args {
			args[i] = wrapped(arg)
		}
		return &jsast.Call{Callee: wrapped(n.Callee), Args: args}
	case *host.ArrayLiteral:
		elements := make([]jsast.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = wrapped(el)
		}
		return &jsast.ArrayLit{Elements: elements}
	case *host.ObjectLiteral:
		props := make([]jsast.ObjectProp, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = jsast.ObjectProp{Key: p.Key, Value: wrapped(p.Value), Quoted: !isIdentifier(p.Key)}
		}
		return &jsast.ObjectLit{Props: props}
	default:
		panic(fmt.Sprintf("translator: cannot wrap %T", node))
	}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
