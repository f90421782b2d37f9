package output

func Variable(name string) *ReadVarExpr {
	return &ReadVarExpr{Name: name}
}

func Import(module, name string) *ExternalExpr {
	return &ExternalExpr{Module: module, Name: name}
}

func Literal(value any) *LiteralExpr {
	return &LiteralExpr{Value: value}
}

func LiteralArr(entries ...Expression) *LiteralArrayExpr {
	if entries == nil {
		entries = []Expression{}
	}
	return &LiteralArrayExpr{Entries: entries}
}

func LiteralMap(entries ...LiteralMapEntry) *LiteralMapExpr {
	return &LiteralMapExpr{Entries: entries}
}

// Entry builds an unquoted map entry
func Entry(key string, value Expression) LiteralMapEntry {
	return LiteralMapEntry{Key: key, Value: value}
}

func Prop(receiver Expression, name string) *ReadPropExpr {
	return &ReadPropExpr{Receiver: receiver, Name: name}
}

func Call(fn Expression, args ...Expression) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{Fn: fn, Args: args}
}

func New(classExpr Expression, args ...Expression) *InstantiateExpr {
	return &InstantiateExpr{ClassExpr: classExpr, Args: args}
}

func Binary(op BinaryOperator, lhs, rhs Expression) *BinaryOperatorExpr {
	return &BinaryOperatorExpr{Operator: op, Lhs: lhs, Rhs: rhs}
}

func Fn(name string, params []string, statements ...Statement) *FunctionExpr {
	return &FunctionExpr{Name: name, Params: params, Statements: statements}
}

func Wrapped(node any) *WrappedNodeExpr {
	return &WrappedNodeExpr{Node: node}
}

// Assign builds receiver.name = value
func Assign(receiver Expression, name string, value Expression) *WritePropExpr {
	return &WritePropExpr{Receiver: receiver, Name: name, Value: value}
}

// ToStmt wraps an expression into an expression statement
func ToStmt(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{Expr: expr}
}

func Return(value Expression) *ReturnStatement {
	return &ReturnStatement{Value: value}
}

func DeclareVar(name string, value Expression) *DeclareVarStmt {
	return &DeclareVarStmt{Name: name, Value: value, Final: true}
}

func DeclareFunction(name string, params []string, statements ...Statement) *DeclareFunctionStmt {
	return &DeclareFunctionStmt{Name: name, Params: params, Statements: statements}
}
