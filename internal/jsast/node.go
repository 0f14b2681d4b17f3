// Package jsast defines an ESTree-shaped JavaScript syntax tree.
//
// Trees are produced by internal/jsparse from tree-sitter output, but every
// node can also be built by hand, which keeps rule logic independent of the
// parser that produced the tree.
package jsast

// Type names an ESTree node type.
type Type string

// Node types produced by the parser. Anything the parser does not model
// explicitly becomes Unknown; its children are kept so traversal still
// reaches nested calls.
const (
	Program                 Type = "Program"
	ExpressionStatement     Type = "ExpressionStatement"
	BlockStatement          Type = "BlockStatement"
	ReturnStatement         Type = "ReturnStatement"
	VariableDeclaration     Type = "VariableDeclaration"
	VariableDeclarator      Type = "VariableDeclarator"
	FunctionDeclaration     Type = "FunctionDeclaration"
	FunctionExpression      Type = "FunctionExpression"
	ArrowFunctionExpression Type = "ArrowFunctionExpression"
	CallExpression          Type = "CallExpression"
	NewExpression           Type = "NewExpression"
	MemberExpression        Type = "MemberExpression"
	AssignmentExpression    Type = "AssignmentExpression"
	ObjectExpression        Type = "ObjectExpression"
	Property                Type = "Property"
	SpreadElement           Type = "SpreadElement"
	Identifier              Type = "Identifier"
	Literal                 Type = "Literal"
	TemplateLiteral         Type = "TemplateLiteral"
	Unknown                 Type = "Unknown"
)

// LiteralKind distinguishes the value category of a Literal node.
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralString
	LiteralNumber
	LiteralRegExp
	LiteralBoolean
	LiteralNull
)

// Position is a point in the source. Line is 1-based, Column is a 0-based
// byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Range is the source span of a node. End is exclusive.
type Range struct {
	Start     Position
	End       Position
	StartByte int
	EndByte   int
}

// Node is a single syntax tree node. Only the fields relevant to its Type
// are populated; Children always lists the node's direct descendants in
// source order and is what Traverse walks.
type Node struct {
	Type   Type
	Range  Range
	Parent *Node

	Children []*Node

	// Kind is the parser's native node kind, kept for Unknown nodes and
	// debugging output.
	Kind string

	// Identifier name, or the Literal's decoded string value.
	Name string
	// Raw source text of a Literal.
	Raw         string
	LiteralKind LiteralKind
	Operator    string

	// CallExpression, NewExpression.
	Callee    *Node
	Arguments []*Node

	// MemberExpression.
	Object   *Node
	Property *Node
	Computed bool

	// Property.
	Key       *Node
	Value     *Node
	Method    bool
	Shorthand bool

	// VariableDeclarator, functions.
	ID   *Node
	Init *Node

	// AssignmentExpression.
	Left  *Node
	Right *Node

	// Functions.
	Params []*Node
	Body   *Node

	// ExpressionStatement, ReturnStatement, SpreadElement.
	Expression *Node
}

// Is reports whether n is non-nil and of type t.
func (n *Node) Is(t Type) bool {
	return n != nil && n.Type == t
}

// IsFunction reports whether n is a function literal: a function expression
// or an arrow function. Function declarations are statements and do not
// count.
func IsFunction(n *Node) bool {
	return n.Is(FunctionExpression) || n.Is(ArrowFunctionExpression)
}

// IsIdentifier reports whether n is an Identifier with the given name.
func IsIdentifier(n *Node, name string) bool {
	return n.Is(Identifier) && n.Name == name
}

// IsStringLiteral reports whether n is a string Literal.
func IsStringLiteral(n *Node) bool {
	return n.Is(Literal) && n.LiteralKind == LiteralString
}

// StaticMemberName returns the property name of a non-computed member
// expression, or "" when n is anything else.
func StaticMemberName(n *Node) string {
	if !n.Is(MemberExpression) || n.Computed || !n.Property.Is(Identifier) {
		return ""
	}
	return n.Property.Name
}

// PropertyName returns the static key of an object Property. Identifier
// keys and string literal keys are supported; computed keys yield "".
func PropertyName(p *Node) string {
	if !p.Is(Property) || p.Computed || p.Key == nil {
		return ""
	}
	switch {
	case p.Key.Is(Identifier):
		return p.Key.Name
	case IsStringLiteral(p.Key):
		return p.Key.Name
	}
	return ""
}

// Ancestors returns the chain of parents of n, nearest first.
func Ancestors(n *Node) []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Text returns the source text covered by n.
func Text(n *Node, source []byte) string {
	if n == nil || n.Range.StartByte < 0 || n.Range.EndByte > len(source) || n.Range.StartByte > n.Range.EndByte {
		return ""
	}
	return string(source[n.Range.StartByte:n.Range.EndByte])
}
