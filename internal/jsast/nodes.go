// Package jsast holds the printable JavaScript nodes produced by the translator
// and the printer that turns them into source text.
package jsast

// Node is any printable node
type Node interface {
	node()
}

// Expr is a printable expression
type Expr interface {
	Node
	expr()
}

// Stmt is a printable statement
type Stmt interface {
	Node
	stmt()
}

type Identifier struct {
	Name string
}

type StringLit struct {
	Value string
}

// TemplateLit is a backtick string; Raw is printed verbatim
type TemplateLit struct {
	Raw string
}

type NumberLit struct {
	Raw string
}

type BoolLit struct {
	Value bool
}

type NullLit struct{}

type UndefinedLit struct{}

type ArrayLit struct {
	Elements []Expr
}

type ObjectProp struct {
	Key    string
	Value  Expr
	Quoted bool
}

type ObjectLit struct {
	Props []ObjectProp
}

type PropertyAccess struct {
	Expr Expr
	Name string
}

type Call struct {
	Callee Expr
	Args   []Expr
}

type New struct {
	Callee Expr
	Args   []Expr
}

type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

type Assign struct {
	Target Expr
	Value  Expr
}

type FunctionExpr struct {
	Name   string
	Params []string
	Body   []Stmt
}

type ExprStmt struct {
	Expr Expr
}

type Return struct {
	Value Expr // nil for a bare return
}

type VarDecl struct {
	Kind string // const, let or var
	Name string
	Init Expr
}

type FunctionDecl struct {
	Name   string
	Params []string
	Body   []Stmt
}

func (*Identifier) node()     {}
func (*StringLit) node()      {}
func (*TemplateLit) node()    {}
func (*NumberLit) node()      {}
func (*BoolLit) node()        {}
func (*NullLit) node()        {}
func (*UndefinedLit) node()   {}
func (*ArrayLit) node()       {}
func (*ObjectLit) node()      {}
func (*PropertyAccess) node() {}
func (*Call) node()           {}
func (*New) node()            {}
func (*Binary) node()         {}
func (*Assign) node()         {}
func (*FunctionExpr) node()   {}
func (*ExprStmt) node()       {}
func (*Return) node()         {}
func (*VarDecl) node()        {}
func (*FunctionDecl) node()   {}

func (*Identifier) expr()     {}
func (*StringLit) expr()      {}
func (*TemplateLit) expr()    {}
func (*NumberLit) expr()      {}
func (*BoolLit) expr()        {}
func (*NullLit) expr()        {}
func (*UndefinedLit) expr()   {}
func (*ArrayLit) expr()       {}
func (*ObjectLit) expr()      {}
func (*PropertyAccess) expr() {}
func (*Call) expr()           {}
func (*New) expr()            {}
func (*Binary) expr()         {}
func (*Assign) expr()         {}
func (*FunctionExpr) expr()   {}

func (*ExprStmt) stmt()     {}
func (*Return) stmt()       {}
func (*VarDecl) stmt()      {}
func (*FunctionDecl) stmt() {}
