package jsast

import (
	"fmt"
	"strings"

	"github.com/toyz/ngcc/internal/host"
)

// Printer renders nodes as JavaScript source
type Printer struct {
	indentUnit string
}

// NewPrinter creates a printer using four-space indentation
func NewPrinter() *Printer {
	return &Printer{indentUnit: "    "}
}

// Print renders node in the context of sf. The source file decides the quote style.
func (p *Printer) Print(node Node, sf *host.SourceFile) string {
	w := &writer{
		indentUnit:  p.indentUnit,
		singleQuote: sf != nil && sf.SingleQuote,
	}
	switch n := node.(type) {
	case Stmt:
		w.stmt(n)
	case Expr:
		w.expr(n)
	default:
		panic(fmt.Sprintf("jsast: cannot print %T", node))
	}
	return w.String()
}

type writer struct {
	strings.Builder
	indentUnit  string
	level       int
	singleQuote bool
}

func (w *writer) newline() {
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(w.indentUnit, w.level))
}

func (w *writer) stmt(s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		if startsAmbiguously(n.Expr) {
			w.WriteByte('(')
			w.expr(n.Expr)
			w.WriteByte(')')
		} else {
			w.expr(n.Expr)
		}
		w.WriteByte(';')
	case *Return:
		w.WriteString("return")
		if n.Value != nil {
			w.WriteByte(' ')
			w.expr(n.Value)
		}
		w.WriteByte(';')
	case *VarDecl:
		kind := n.Kind
		if kind == "" {
			kind = "const"
		}
		w.WriteString(kind + " " + n.Name)
		if n.Init != nil {
			w.WriteString(" = ")
			w.expr(n.Init)
		}
		w.WriteByte(';')
	case *FunctionDecl:
		w.function(n.Name, n.Params, n.Body)
	default:
		panic(fmt.Sprintf("jsast: unsupported statement %T", s))
	}
}

func (w *writer) function(name string, params []string, body []Stmt) {
	w.WriteString("function ")
	if name != "" {
		w.WriteString(name)
	}
	w.WriteString("(" + strings.Join(params, ", ") + ") {")
	if len(body) == 0 {
		w.WriteString(" }")
		return
	}
	w.level++
	for _, s := range body {
		w.newline()
		w.stmt(s)
	}
	w.level--
	w.newline()
	w.WriteByte('}')
}

func (w *writer) expr(e Expr) {
	switch n := e.(type) {
	case *Identifier:
		w.WriteString(n.Name)
	case *StringLit:
		w.WriteString(quote(n.Value, w.singleQuote))
	case *TemplateLit:
		w.WriteString("`" + n.Raw + "`")
	case *NumberLit:
		w.WriteString(n.Raw)
	case *BoolLit:
		if n.Value {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	case *NullLit:
		w.WriteString("null")
	case *UndefinedLit:
		w.WriteString("undefined")
	case *ArrayLit:
		w.WriteByte('[')
		w.list(n.Elements)
		w.WriteByte(']')
	case *ObjectLit:
		if len(n.Props) == 0 {
			w.WriteString("{}")
			return
		}
		w.WriteString("{ ")
		for i, prop := range n.Props {
			if i > 0 {
				w.WriteString(", ")
			}
			if prop.Quoted {
				w.WriteString(quote(prop.Key, w.singleQuote))
			} else {
				w.WriteString(prop.Key)
			}
			w.WriteString(": ")
			w.expr(prop.Value)
		}
		w.WriteString(" }")
	case *PropertyAccess:
		w.operand(n.Expr, needsParensAsReceiver(n.Expr))
		w.WriteString("." + n.Name)
	case *Call:
		w.operand(n.Callee, needsParensAsReceiver(n.Callee))
		w.WriteByte('(')
		w.list(n.Args)
		w.WriteByte(')')
	case *New:
		w.WriteString("new ")
		w.operand(n.Callee, !isSimpleReference(n.Callee))
		w.WriteByte('(')
		w.list(n.Args)
		w.WriteByte(')')
	case *Binary:
		w.operand(n.Left, needsParensInBinary(n.Left, n.Op))
		w.WriteString(" " + n.Op + " ")
		w.operand(n.Right, needsParensInBinary(n.Right, n.Op))
	case *Assign:
		w.expr(n.Target)
		w.WriteString(" = ")
		w.expr(n.Value)
	case *FunctionExpr:
		w.function(n.Name, n.Params, n.Body)
	default:
		panic(fmt.Sprintf("jsast: unsupported expression %T", e))
	}
}

func (w *writer) operand(e Expr, parens bool) {
	if parens {
		w.WriteByte('(')
		w.expr(e)
		w.WriteByte(')')
		return
	}
	w.expr(e)
}

func (w *writer) list(items []Expr) {
	for i, item := range items {
		if i > 0 {
			w.WriteString(", ")
		}
		w.expr(item)
	}
}

func isSimpleReference(e Expr) bool {
	switch n := e.(type) {
	case *Identifier:
		return true
	case *PropertyAccess:
		return isSimpleReference(n.Expr)
	default:
		return false
	}
}

func needsParensAsReceiver(e Expr) bool {
	switch e.(type) {
	case *Binary, *Assign, *FunctionExpr, *New:
		return true
	default:
		return false
	}
}

func needsParensInBinary(e Expr, op string) bool {
	switch n := e.(type) {
	case *Assign, *FunctionExpr:
		return true
	case *Binary:
		return n.Op != op
	default:
		return false
	}
}

// startsAmbiguously reports whether an expression statement would be read as a
// declaration or block if printed bare
func startsAmbiguously(e Expr) bool {
	switch n := e.(type) {
	case *FunctionExpr, *ObjectLit:
		return true
	case *Assign:
		return startsAmbiguously(n.Target)
	case *PropertyAccess:
		return startsAmbiguously(n.Expr)
	case *Call:
		return startsAmbiguously(n.Callee)
	default:
		return false
	}
}

func quote(s string, single bool) string {
	q := byte('"')
	if single {
		q = '\''
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
