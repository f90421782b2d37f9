// Package output is the language-neutral expression and statement model that
// decorator handlers build their compiled definitions from. Nodes are plain
// data; the translator package turns them into printable JavaScript.
package output

// Expression is any node that produces a value
type Expression interface {
	expression()
}

// Statement is any node that can appear in a statement list
type Statement interface {
	statement()
}

// ReadVarExpr reads a variable in scope
type ReadVarExpr struct {
	Name string
}

// ExternalExpr references a symbol exported by another module.
// Translation turns it into a namespace import plus a property read.
type ExternalExpr struct {
	Module string
	Name   string
}

// LiteralExpr is a primitive literal: string, int, float64, bool or nil
type LiteralExpr struct {
	Value any
}

// LiteralArrayExpr is an array literal
type LiteralArrayExpr struct {
	Entries []Expression
}

// LiteralMapEntry is a key: value pair of a map literal
type LiteralMapEntry struct {
	Key    string
	Value  Expression
	Quoted bool
}

// LiteralMapExpr is an object literal with ordered entries
type LiteralMapExpr struct {
	Entries []LiteralMapEntry
}

// ReadPropExpr reads receiver.name
type ReadPropExpr struct {
	Receiver Expression
	Name     string
}

// WritePropExpr assigns value to receiver.name
type WritePropExpr struct {
	Receiver Expression
	Name     string
	Value    Expression
}

// InvokeFunctionExpr calls fn(args...)
type InvokeFunctionExpr struct {
	Fn   Expression
	Args []Expression
}

// InstantiateExpr is new classExpr(args...)
type InstantiateExpr struct {
	ClassExpr Expression
	Args      []Expression
}

// BinaryOperator is a supported binary operator
type BinaryOperator string

const (
	Or  BinaryOperator = "||"
	And BinaryOperator = "&&"
)

// BinaryOperatorExpr is lhs op rhs
type BinaryOperatorExpr struct {
	Operator BinaryOperator
	Lhs      Expression
	Rhs      Expression
}

// FunctionExpr is an anonymous or named function expression
type FunctionExpr struct {
	Name       string
	Params     []string
	Statements []Statement
}

// WrappedNodeExpr carries a node from the host language through untouched.
// Node is either a string identifier or a host.Value.
type WrappedNodeExpr struct {
	Node any
}

func (*ReadVarExpr) expression()        {}
func (*ExternalExpr) expression()       {}
func (*LiteralExpr) expression()        {}
func (*LiteralArrayExpr) expression()   {}
func (*LiteralMapExpr) expression()     {}
func (*ReadPropExpr) expression()       {}
func (*WritePropExpr) expression()      {}
func (*InvokeFunctionExpr) expression() {}
func (*InstantiateExpr) expression()    {}
func (*BinaryOperatorExpr) expression() {}
func (*FunctionExpr) expression()       {}
func (*WrappedNodeExpr) expression()    {}

// ExpressionStatement evaluates an expression for its side effects
type ExpressionStatement struct {
	Expr Expression
}

// ReturnStatement returns value from the enclosing function
type ReturnStatement struct {
	Value Expression
}

// DeclareVarStmt declares name = value
type DeclareVarStmt struct {
	Name  string
	Value Expression
	Final bool
}

// DeclareFunctionStmt declares a named function
type DeclareFunctionStmt struct {
	Name       string
	Params     []string
	Statements []Statement
}

func (*ExpressionStatement) statement() {}
func (*ReturnStatement) statement()     {}
func (*DeclareVarStmt) statement()      {}
func (*DeclareFunctionStmt) statement() {}
