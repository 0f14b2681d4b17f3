package jsast

import "strconv"

// Constructors for hand-built trees. They fill the typed fields and the
// Children list consistently; call Link on the root to set parents.

func children(nodes ...*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NewProgram builds a Program from statements and links parents.
func NewProgram(body ...*Node) *Node {
	p := &Node{Type: Program, Children: children(body...)}
	Link(p)
	return p
}

// NewIdent builds an Identifier.
func NewIdent(name string) *Node {
	return &Node{Type: Identifier, Name: name}
}

// NewString builds a string Literal.
func NewString(value string) *Node {
	return &Node{Type: Literal, LiteralKind: LiteralString, Name: value, Raw: strconv.Quote(value)}
}

// NewNumber builds a numeric Literal from its source text.
func NewNumber(raw string) *Node {
	return &Node{Type: Literal, LiteralKind: LiteralNumber, Raw: raw}
}

// NewRegExp builds a regular expression Literal from its source text.
func NewRegExp(raw string) *Node {
	return &Node{Type: Literal, LiteralKind: LiteralRegExp, Raw: raw}
}

// NewMember builds a non-computed member expression object.prop.
func NewMember(object *Node, prop string) *Node {
	p := NewIdent(prop)
	return &Node{Type: MemberExpression, Object: object, Property: p, Children: children(object, p)}
}

// NewComputedMember builds object[prop].
func NewComputedMember(object, prop *Node) *Node {
	return &Node{Type: MemberExpression, Object: object, Property: prop, Computed: true, Children: children(object, prop)}
}

// NewCall builds a call expression.
func NewCall(callee *Node, args ...*Node) *Node {
	return &Node{Type: CallExpression, Callee: callee, Arguments: args, Children: children(append([]*Node{callee}, args...)...)}
}

// NewStmt wraps an expression in an ExpressionStatement.
func NewStmt(expr *Node) *Node {
	return &Node{Type: ExpressionStatement, Expression: expr, Children: children(expr)}
}

// NewBlock builds a block statement.
func NewBlock(body ...*Node) *Node {
	return &Node{Type: BlockStatement, Children: children(body...)}
}

// NewFunc builds a function expression with identifier parameters.
func NewFunc(params []string, body ...*Node) *Node {
	f := &Node{Type: FunctionExpression, Body: NewBlock(body...)}
	for _, p := range params {
		f.Params = append(f.Params, NewIdent(p))
	}
	f.Children = children(append(append([]*Node{}, f.Params...), f.Body)...)
	return f
}

// NewArrow builds an arrow function with a block body.
func NewArrow(params []string, body ...*Node) *Node {
	f := NewFunc(params, body...)
	f.Type = ArrowFunctionExpression
	return f
}

// NewObject builds an object literal from properties.
func NewObject(props ...*Node) *Node {
	return &Node{Type: ObjectExpression, Children: children(props...)}
}

// NewProp builds a key: value property with an identifier key.
func NewProp(key string, value *Node) *Node {
	k := NewIdent(key)
	return &Node{Type: Property, Key: k, Value: value, Children: children(k, value)}
}

// NewVar builds `var name = init;`.
func NewVar(name string, init *Node) *Node {
	id := NewIdent(name)
	d := &Node{Type: VariableDeclarator, ID: id, Init: init, Children: children(id, init)}
	return &Node{Type: VariableDeclaration, Children: []*Node{d}}
}

// NewAssign builds `left = right` wrapped in a statement.
func NewAssign(left, right *Node) *Node {
	a := &Node{Type: AssignmentExpression, Operator: "=", Left: left, Right: right, Children: children(left, right)}
	return NewStmt(a)
}
