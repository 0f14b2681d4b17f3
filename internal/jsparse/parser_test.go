package jsparse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/jsast"
)

func parse(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NotNil(t, res.Program)
	return res
}

func firstExpr(t *testing.T, res *Result) *jsast.Node {
	t.Helper()
	require.NotEmpty(t, res.Program.Children)
	stmt := res.Program.Children[0]
	require.Equal(t, jsast.ExpressionStatement, stmt.Type)
	require.NotNil(t, stmt.Expression)
	return stmt.Expression
}

func TestParse_MemberCall(t *testing.T) {
	t.Parallel()

	res := parse(t, "QUnit.reset();")
	call := firstExpr(t, res)

	assert.Equal(t, jsast.CallExpression, call.Type)
	assert.Empty(t, call.Arguments)
	require.True(t, call.Callee.Is(jsast.MemberExpression))
	assert.True(t, jsast.IsIdentifier(call.Callee.Object, "QUnit"))
	assert.Equal(t, "reset", jsast.StaticMemberName(call.Callee))
	assert.Equal(t, jsast.Position{Line: 1, Column: 0}, call.Range.Start)
	assert.Equal(t, "QUnit.reset()", jsast.Text(call, []byte("QUnit.reset();")))
	assert.Zero(t, res.SyntaxErrors)
}

func TestParse_ComputedMember(t *testing.T) {
	t.Parallel()

	call := firstExpr(t, parse(t, `QUnit["stop"]();`))
	require.True(t, call.Callee.Is(jsast.MemberExpression))
	assert.True(t, call.Callee.Computed)
	assert.Empty(t, jsast.StaticMemberName(call.Callee))
}

func TestParse_TestCallback(t *testing.T) {
	t.Parallel()

	src := "QUnit.test('name', function (assert) {\n  var done = assert.async();\n  done();\n});"
	call := firstExpr(t, parse(t, src))

	require.Len(t, call.Arguments, 2)
	assert.True(t, jsast.IsStringLiteral(call.Arguments[0]))
	assert.Equal(t, "name", call.Arguments[0].Name)

	fn := call.Arguments[1]
	require.True(t, jsast.IsFunction(fn))
	require.Len(t, fn.Params, 1)
	assert.True(t, jsast.IsIdentifier(fn.Params[0], "assert"))
	require.True(t, fn.Body.Is(jsast.BlockStatement))
	require.Len(t, fn.Body.Children, 2)

	decl := fn.Body.Children[0]
	require.Equal(t, jsast.VariableDeclaration, decl.Type)
	require.Len(t, decl.Children, 1)
	d := decl.Children[0]
	assert.True(t, jsast.IsIdentifier(d.ID, "done"))
	require.True(t, d.Init.Is(jsast.CallExpression))
	assert.Equal(t, "async", jsast.StaticMemberName(d.Init.Callee))
	assert.Equal(t, 2, d.Init.Range.Start.Line)
	assert.Equal(t, 13, d.Init.Range.Start.Column)

	assert.Equal(t, d, d.Init.Parent)
}

func TestParse_ArrowFunction(t *testing.T) {
	t.Parallel()

	call := firstExpr(t, parse(t, "test('x', assert => { stop(); });"))
	require.Len(t, call.Arguments, 2)
	fn := call.Arguments[1]
	assert.Equal(t, jsast.ArrowFunctionExpression, fn.Type)
	require.Len(t, fn.Params, 1)
	assert.True(t, jsast.IsIdentifier(fn.Params[0], "assert"))
}

func TestParse_Assignment(t *testing.T) {
	t.Parallel()

	expr := firstExpr(t, parse(t, "done = assert.async();"))
	require.Equal(t, jsast.AssignmentExpression, expr.Type)
	assert.Equal(t, "=", expr.Operator)
	assert.True(t, jsast.IsIdentifier(expr.Left, "done"))
	assert.True(t, expr.Right.Is(jsast.CallExpression))

	aug := firstExpr(t, parse(t, "n += 1;"))
	require.Equal(t, jsast.AssignmentExpression, aug.Type)
	assert.Equal(t, "+=", aug.Operator)
}

func TestParse_ObjectProperties(t *testing.T) {
	t.Parallel()

	src := `QUnit.module("m", { setup: function () {}, teardown() {}, "beforeEach": () => {}, other, [key]: 1 });`
	call := firstExpr(t, parse(t, src))
	require.Len(t, call.Arguments, 2)
	obj := call.Arguments[1]
	require.Equal(t, jsast.ObjectExpression, obj.Type)
	require.Len(t, obj.Children, 5)

	setup := obj.Children[0]
	assert.Equal(t, "setup", jsast.PropertyName(setup))
	assert.False(t, setup.Method)
	assert.True(t, jsast.IsFunction(setup.Value))

	teardown := obj.Children[1]
	assert.Equal(t, "teardown", jsast.PropertyName(teardown))
	assert.True(t, teardown.Method)
	assert.Equal(t, jsast.FunctionExpression, teardown.Value.Type)

	assert.Equal(t, "beforeEach", jsast.PropertyName(obj.Children[2]))
	assert.Equal(t, jsast.ArrowFunctionExpression, obj.Children[2].Value.Type)

	assert.True(t, obj.Children[3].Shorthand)
	assert.Equal(t, "other", jsast.PropertyName(obj.Children[3]))

	assert.True(t, obj.Children[4].Computed)
	assert.Empty(t, jsast.PropertyName(obj.Children[4]))
}

func TestParse_Literals(t *testing.T) {
	t.Parallel()

	call := firstExpr(t, parse(t, `assert.throws(block, /re/, "msg", 'single', 3, true, null);`))
	require.Len(t, call.Arguments, 7)
	assert.Equal(t, jsast.Identifier, call.Arguments[0].Type)
	assert.Equal(t, jsast.LiteralRegExp, call.Arguments[1].LiteralKind)
	assert.Equal(t, jsast.LiteralString, call.Arguments[2].LiteralKind)
	assert.Equal(t, "msg", call.Arguments[2].Name)
	assert.Equal(t, `"msg"`, call.Arguments[2].Raw)
	assert.Equal(t, "single", call.Arguments[3].Name)
	assert.Equal(t, jsast.LiteralNumber, call.Arguments[4].LiteralKind)
	assert.Equal(t, "3", call.Arguments[4].Raw)
	assert.Equal(t, jsast.LiteralBoolean, call.Arguments[5].LiteralKind)
	assert.Equal(t, jsast.LiteralNull, call.Arguments[6].LiteralKind)
}

func TestParse_TemplateIsNotStringLiteral(t *testing.T) {
	t.Parallel()

	call := firstExpr(t, parse(t, "throws(block, `tpl`, 'msg');"))
	require.Len(t, call.Arguments, 3)
	assert.Equal(t, jsast.TemplateLiteral, call.Arguments[1].Type)
	assert.False(t, jsast.IsStringLiteral(call.Arguments[1]))
}

func TestParse_ParenthesesUnwrapped(t *testing.T) {
	t.Parallel()

	assign := firstExpr(t, parse(t, "(x = (assert.async()));"))
	require.Equal(t, jsast.AssignmentExpression, assign.Type)
	assert.Equal(t, jsast.CallExpression, assign.Right.Type)
}

func TestParse_Comments(t *testing.T) {
	t.Parallel()

	src := "// qunitlint-disable-next-line qunit/no-reset\nQUnit.reset(); /* block */\n"
	res := parse(t, src)

	require.Len(t, res.Comments, 2)
	assert.Equal(t, "// qunitlint-disable-next-line qunit/no-reset", res.Comments[0].Text)
	assert.False(t, res.Comments[0].Block)
	assert.Equal(t, 1, res.Comments[0].Range.Start.Line)
	assert.Equal(t, "/* block */", res.Comments[1].Text)
	assert.True(t, res.Comments[1].Block)
	assert.Equal(t, 2, res.Comments[1].Range.Start.Line)

	for _, n := range jsast.Find(res.Program, func(*jsast.Node) bool { return true }) {
		assert.NotEqual(t, "comment", n.Kind)
	}
}

func TestParse_SyntaxErrorsRecovered(t *testing.T) {
	t.Parallel()

	res := parse(t, "test('x', function () {\n  stop();\n")
	assert.Positive(t, res.SyntaxErrors)

	calls := jsast.Find(res.Program, func(n *jsast.Node) bool { return n.Is(jsast.CallExpression) })
	assert.NotEmpty(t, calls)
}

func TestParse_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte("x();"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_CanceledMidParse(t *testing.T) {
	t.Parallel()

	src := []byte(strings.Repeat("test('n', function () { stop(); start(); });\n", 200000))

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(5*time.Millisecond, cancel)
	defer timer.Stop()

	res, err := Parse(ctx, src)
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
		return
	}
	// The parse may win the race on a fast machine.
	assert.Equal(t, jsast.Program, res.Program.Type)
}

func TestParse_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := Parse(context.Background(), []byte{0xff, 0xfe, 'x'})
	require.ErrorIs(t, err, ErrInvalidUTF8)
}
