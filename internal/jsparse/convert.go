package jsparse

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/wharflab/qunitlint/internal/jsast"
)

// tree-sitter-javascript node kinds.
const (
	kindComment           = "comment"
	kindArguments         = "arguments"
	kindFormalParameters  = "formal_parameters"
	kindPropertyID        = "property_identifier"
	kindPrivatePropertyID = "private_property_identifier"
	kindComputedProperty  = "computed_property_name"
)

type converter struct {
	src      []byte
	comments []Comment
	errors   int
}

// scan collects comments and syntax errors from the whole tree. Comments are
// extras and may hang off any node, so this runs before conversion instead of
// inside it.
func (c *converter) scan(n *sitter.Node) {
	if n == nil {
		return
	}
	if n.IsError() || n.IsMissing() {
		c.errors++
	}
	if n.Kind() == kindComment {
		text := n.Utf8Text(c.src)
		c.comments = append(c.comments, Comment{
			Text:  text,
			Block: strings.HasPrefix(text, "/*"),
			Range: rangeOf(n),
		})
		return
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c.scan(n.Child(i))
	}
}

func rangeOf(n *sitter.Node) jsast.Range {
	start, end := n.StartPosition(), n.EndPosition()
	return jsast.Range{
		Start:     jsast.Position{Line: int(start.Row) + 1, Column: int(start.Column)},
		End:       jsast.Position{Line: int(end.Row) + 1, Column: int(end.Column)},
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := n.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.Kind() == kindComment {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func (c *converter) base(n *sitter.Node, t jsast.Type) *jsast.Node {
	return &jsast.Node{Type: t, Range: rangeOf(n), Kind: n.Kind()}
}

func (c *converter) field(n *sitter.Node, name string) *jsast.Node {
	ch := n.ChildByFieldName(name)
	if ch == nil {
		return nil
	}
	return c.convert(ch)
}

func (c *converter) all(nodes []*sitter.Node) []*jsast.Node {
	out := make([]*jsast.Node, 0, len(nodes))
	for _, ch := range nodes {
		if conv := c.convert(ch); conv != nil {
			out = append(out, conv)
		}
	}
	return out
}

func compact(nodes ...*jsast.Node) []*jsast.Node {
	out := make([]*jsast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

//nolint:gocyclo,funlen // one case per node kind
func (c *converter) convert(n *sitter.Node) *jsast.Node {
	if n == nil {
		return nil
	}

	switch n.Kind() {
	case kindComment:
		return nil

	case "program":
		out := c.base(n, jsast.Program)
		out.Children = c.all(namedChildren(n))
		return out

	case "expression_statement", "return_statement":
		t := jsast.ExpressionStatement
		if n.Kind() == "return_statement" {
			t = jsast.ReturnStatement
		}
		out := c.base(n, t)
		if kids := namedChildren(n); len(kids) > 0 {
			out.Expression = c.convert(kids[0])
		}
		out.Children = compact(out.Expression)
		return out

	case "statement_block":
		out := c.base(n, jsast.BlockStatement)
		out.Children = c.all(namedChildren(n))
		return out

	case "variable_declaration", "lexical_declaration":
		out := c.base(n, jsast.VariableDeclaration)
		out.Children = c.all(namedChildren(n))
		return out

	case "variable_declarator":
		out := c.base(n, jsast.VariableDeclarator)
		out.ID = c.field(n, "name")
		out.Init = c.field(n, "value")
		out.Children = compact(out.ID, out.Init)
		return out

	case "function_declaration", "generator_function_declaration":
		return c.function(n, jsast.FunctionDeclaration)

	case "function_expression", "function", "generator_function":
		return c.function(n, jsast.FunctionExpression)

	case "arrow_function":
		return c.function(n, jsast.ArrowFunctionExpression)

	case "call_expression":
		out := c.base(n, jsast.CallExpression)
		out.Callee = c.field(n, "function")
		out.Arguments = c.arguments(n.ChildByFieldName("arguments"))
		out.Children = compact(append([]*jsast.Node{out.Callee}, out.Arguments...)...)
		return out

	case "new_expression":
		out := c.base(n, jsast.NewExpression)
		out.Callee = c.field(n, "constructor")
		out.Arguments = c.arguments(n.ChildByFieldName("arguments"))
		out.Children = compact(append([]*jsast.Node{out.Callee}, out.Arguments...)...)
		return out

	case "member_expression":
		out := c.base(n, jsast.MemberExpression)
		out.Object = c.field(n, "object")
		out.Property = c.field(n, "property")
		out.Children = compact(out.Object, out.Property)
		return out

	case "subscript_expression":
		out := c.base(n, jsast.MemberExpression)
		out.Object = c.field(n, "object")
		out.Property = c.field(n, "index")
		out.Computed = true
		out.Children = compact(out.Object, out.Property)
		return out

	case "assignment_expression", "augmented_assignment_expression":
		out := c.base(n, jsast.AssignmentExpression)
		out.Left = c.field(n, "left")
		out.Right = c.field(n, "right")
		out.Operator = "="
		if op := n.ChildByFieldName("operator"); op != nil {
			out.Operator = op.Utf8Text(c.src)
		}
		out.Children = compact(out.Left, out.Right)
		return out

	case "parenthesized_expression":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return c.convert(kids[0])
		}
		out := c.base(n, jsast.Unknown)
		out.Children = c.all(kids)
		return out

	case "object":
		out := c.base(n, jsast.ObjectExpression)
		out.Children = c.all(namedChildren(n))
		return out

	case "pair":
		out := c.base(n, jsast.Property)
		out.Key, out.Computed = c.propertyKey(n.ChildByFieldName("key"))
		out.Value = c.field(n, "value")
		out.Children = compact(out.Key, out.Value)
		return out

	case "method_definition":
		out := c.base(n, jsast.Property)
		out.Key, out.Computed = c.propertyKey(n.ChildByFieldName("name"))
		out.Method = true
		out.Value = c.function(n, jsast.FunctionExpression)
		out.Children = compact(out.Key, out.Value)
		return out

	case "shorthand_property_identifier":
		out := c.base(n, jsast.Property)
		out.Shorthand = true
		out.Key = c.identifier(n)
		out.Value = c.identifier(n)
		out.Children = compact(out.Key)
		return out

	case "spread_element":
		out := c.base(n, jsast.SpreadElement)
		if kids := namedChildren(n); len(kids) > 0 {
			out.Expression = c.convert(kids[0])
		}
		out.Children = compact(out.Expression)
		return out

	case "identifier", kindPropertyID, kindPrivatePropertyID, "shorthand_property_identifier_pattern", "undefined":
		return c.identifier(n)

	case "string":
		out := c.base(n, jsast.Literal)
		out.LiteralKind = jsast.LiteralString
		out.Raw = n.Utf8Text(c.src)
		out.Name = unquote(out.Raw)
		return out

	case "number":
		return c.literal(n, jsast.LiteralNumber)
	case "regex":
		return c.literal(n, jsast.LiteralRegExp)
	case "true", "false":
		return c.literal(n, jsast.LiteralBoolean)
	case "null":
		return c.literal(n, jsast.LiteralNull)

	case "template_string":
		out := c.base(n, jsast.TemplateLiteral)
		out.Raw = n.Utf8Text(c.src)
		out.Children = c.all(namedChildren(n))
		return out

	case "string_fragment", "escape_sequence":
		return nil
	}

	out := c.base(n, jsast.Unknown)
	out.Children = c.all(namedChildren(n))
	return out
}

func (c *converter) identifier(n *sitter.Node) *jsast.Node {
	out := c.base(n, jsast.Identifier)
	out.Name = n.Utf8Text(c.src)
	return out
}

func (c *converter) literal(n *sitter.Node, kind jsast.LiteralKind) *jsast.Node {
	out := c.base(n, jsast.Literal)
	out.LiteralKind = kind
	out.Raw = n.Utf8Text(c.src)
	return out
}

// function converts any function-like node. Method definitions share the
// parameters/body field layout, so they come through here too.
func (c *converter) function(n *sitter.Node, t jsast.Type) *jsast.Node {
	out := c.base(n, t)
	if t != jsast.ArrowFunctionExpression && n.Kind() != "method_definition" {
		out.ID = c.field(n, "name")
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		if params.Kind() == kindFormalParameters {
			out.Params = c.all(namedChildren(params))
		} else {
			out.Params = compact(c.convert(params))
		}
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		out.Params = compact(c.convert(param))
	}
	out.Body = c.field(n, "body")

	kids := make([]*jsast.Node, 0, len(out.Params)+2)
	kids = append(kids, out.ID)
	kids = append(kids, out.Params...)
	kids = append(kids, out.Body)
	out.Children = compact(kids...)
	return out
}

func (c *converter) arguments(n *sitter.Node) []*jsast.Node {
	if n == nil {
		return nil
	}
	if n.Kind() != kindArguments {
		// Tagged template: the template is the only argument.
		return compact(c.convert(n))
	}
	return c.all(namedChildren(n))
}

func (c *converter) propertyKey(n *sitter.Node) (*jsast.Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.Kind() == kindComputedProperty {
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil, true
		}
		return c.convert(kids[0]), true
	}
	return c.convert(n), false
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		q := raw[0]
		if (q == '"' || q == '\'') && raw[len(raw)-1] == q {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
