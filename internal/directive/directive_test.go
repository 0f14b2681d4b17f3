package directive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/jsast"
	"github.com/wharflab/qunitlint/internal/jsparse"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/testutil"
)

func parse(t *testing.T, content string, validator RuleValidator) *ParseResult {
	t.Helper()
	return Parse(testutil.ParseJS(t, content).Comments, validator)
}

func lineComment(line int, text string) jsparse.Comment {
	return jsparse.Comment{
		Text: text,
		Range: jsast.Range{
			Start: jsast.Position{Line: line, Column: 0},
			End:   jsast.Position{Line: line, Column: len(text)},
		},
	}
}

func blockComment(startLine, endLine int, text string) jsparse.Comment {
	c := lineComment(startLine, text)
	c.Block = true
	c.Range.End.Line = endLine
	return c
}

func TestParseNextLine(t *testing.T) {
	t.Parallel()

	result := parse(t, "// qunitlint-disable-next-line no-reset\nQUnit.reset();\n", nil)
	require.Len(t, result.Directives, 1)
	require.Empty(t, result.Errors)

	d := result.Directives[0]
	assert.Equal(t, TypeNextLine, d.Type)
	assert.Equal(t, []string{"no-reset"}, d.Rules)
	assert.Equal(t, SourceQUnitlint, d.Source)
	assert.Equal(t, 0, d.Line)
	assert.Equal(t, LineRange{Start: 1, End: 1}, d.AppliesTo)
	assert.Empty(t, d.Reason)
}

func TestParseMultipleRules(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{
		lineComment(3, "// qunitlint-disable-next-line no-reset, qunit/resolve-async ,no-throws-string"),
	}, nil)
	require.Len(t, result.Directives, 1)
	assert.Equal(t, []string{"no-reset", "qunit/resolve-async", "no-throws-string"}, result.Directives[0].Rules)
}

func TestParseSameLine(t *testing.T) {
	t.Parallel()

	result := parse(t, "QUnit.reset(); // qunitlint-disable-line no-reset\n", nil)
	require.Len(t, result.Directives, 1)
	d := result.Directives[0]
	assert.Equal(t, TypeSameLine, d.Type)
	assert.Equal(t, LineRange{Start: 0, End: 0}, d.AppliesTo)
}

func TestParseGlobalBlock(t *testing.T) {
	t.Parallel()

	content := "QUnit.test('a', function () {});\n/* qunitlint-disable resolve-async */\nstop();\n"
	result := parse(t, content, nil)
	require.Len(t, result.Directives, 1)

	d := result.Directives[0]
	assert.Equal(t, TypeGlobal, d.Type)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 0, d.AppliesTo.Start)
	assert.Equal(t, math.MaxInt, d.AppliesTo.End)
}

func TestParseGlobalLineCommentIsError(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{lineComment(1, "// qunitlint-disable no-reset")}, nil)
	assert.Empty(t, result.Directives)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "must be a block comment")
	assert.Equal(t, 0, result.Errors[0].Line)
}

func TestParseMultilineNextLineIsError(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{
		blockComment(1, 2, "/* qunitlint-disable-next-line\n   no-reset */"),
	}, nil)
	assert.Empty(t, result.Directives)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "should not span multiple lines")
}

func TestParseBlockNextLine(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{
		blockComment(4, 4, "/* qunitlint-disable-next-line no-reset */"),
	}, nil)
	require.Len(t, result.Directives, 1)
	assert.Equal(t, LineRange{Start: 4, End: 4}, result.Directives[0].AppliesTo)
}

func TestParseAllRules(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{lineComment(1, "// qunitlint-disable-next-line")}, nil)
	require.Len(t, result.Directives, 1)
	d := result.Directives[0]
	assert.True(t, d.SuppressesAll())
	assert.True(t, d.SuppressesRule("qunit/anything"))
}

func TestParseReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		rules  []string
		reason string
	}{
		{"// qunitlint-disable-next-line no-reset -- legacy fixture", []string{"no-reset"}, "legacy fixture"},
		{"// qunitlint-disable-next-line no-reset --- triple dash", []string{"no-reset"}, "triple dash"},
		{"// qunitlint-disable-next-line -- everything", []string{AllRules}, "everything"},
		{"// qunitlint-disable-next-line no-reset -- uses a--b and -- more", []string{"no-reset"}, "uses a--b and -- more"},
		{"// qunitlint-disable-next-line no-reset--not-a-reason", []string{"no-reset--not-a-reason"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			result := Parse([]jsparse.Comment{lineComment(1, tt.text)}, nil)
			require.Len(t, result.Directives, 1)
			assert.Equal(t, tt.rules, result.Directives[0].Rules)
			assert.Equal(t, tt.reason, result.Directives[0].Reason)
		})
	}
}

func TestParseESLintCompatibility(t *testing.T) {
	t.Parallel()

	content := `// eslint-disable-next-line qunit/no-reset, no-undef
QUnit.reset();
// eslint-disable-next-line no-undef
foo();
/* eslint-disable qunit/resolve-async -- migrated suite */
// eslint-disable no-console
`
	result := parse(t, content, nil)
	require.Empty(t, result.Errors)
	require.Len(t, result.Directives, 2)

	assert.Equal(t, SourceESLint, result.Directives[0].Source)
	assert.Equal(t, []string{"qunit/no-reset"}, result.Directives[0].Rules)
	assert.Equal(t, TypeNextLine, result.Directives[0].Type)

	assert.Equal(t, TypeGlobal, result.Directives[1].Type)
	assert.Equal(t, []string{"qunit/resolve-async"}, result.Directives[1].Rules)
	assert.Equal(t, "migrated suite", result.Directives[1].Reason)
}

func TestParseESLintWithoutRules(t *testing.T) {
	t.Parallel()

	result := Parse([]jsparse.Comment{lineComment(1, "// eslint-disable-next-line")}, nil)
	require.Len(t, result.Directives, 1)
	assert.True(t, result.Directives[0].SuppressesAll())
}

func TestParseRegularComments(t *testing.T) {
	t.Parallel()

	content := `// just a comment
/* qunitlint is great */
// qunitlint-disablenext no-reset
// eslint-enable qunit/no-reset
QUnit.test('t', function () {});
`
	result := parse(t, content, nil)
	assert.Empty(t, result.Directives)
	assert.Empty(t, result.Errors)
}

func TestParseWithValidation(t *testing.T) {
	t.Parallel()

	known := func(code string) bool {
		return code == "no-reset" || code == "qunit/no-reset"
	}

	result := Parse([]jsparse.Comment{
		lineComment(1, "// qunitlint-disable-next-line no-reset, bogus, also-bogus"),
		lineComment(3, "// qunitlint-disable-next-line"),
	}, known)

	require.Len(t, result.Directives, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "unknown rule code(s): bogus, also-bogus", result.Errors[0].Message)
	assert.Equal(t, 0, result.Errors[0].Line)
}

func TestMatchesRule(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesRule("qunit/no-reset", "qunit/no-reset"))
	assert.True(t, matchesRule("no-reset", "qunit/no-reset"))
	assert.True(t, matchesRule("qunit/no-reset", "no-reset"))
	assert.False(t, matchesRule("no-reset", "qunit/resolve-async"))
	assert.False(t, matchesRule("reset", "qunit/no-reset"))
}

func newViolation(line int, code string) rules.Violation {
	return rules.NewViolation(rules.NewLineLocation("test.js", line), code, "msg", rules.SeverityError)
}

func TestFilterNextLine(t *testing.T) {
	t.Parallel()

	result := parse(t, "// qunitlint-disable-next-line no-reset\nQUnit.reset();\nQUnit.reset();\n", nil)
	filtered := Filter([]rules.Violation{
		newViolation(2, "qunit/no-reset"),
		newViolation(3, "qunit/no-reset"),
		newViolation(2, "qunit/resolve-async"),
	}, result.Directives)

	require.Len(t, filtered.Suppressed, 1)
	assert.Equal(t, 2, filtered.Suppressed[0].Line())
	assert.Len(t, filtered.Violations, 2)
	assert.Empty(t, filtered.UnusedDirectives)
}

func TestFilterGlobal(t *testing.T) {
	t.Parallel()

	directives := Parse([]jsparse.Comment{
		blockComment(10, 10, "/* qunitlint-disable resolve-async */"),
	}, nil).Directives

	fileLevel := rules.NewViolation(rules.NewFileLocation("test.js"), "qunit/resolve-async", "msg", rules.SeverityError)
	filtered := Filter([]rules.Violation{
		newViolation(1, "qunit/resolve-async"),
		newViolation(50, "qunit/resolve-async"),
		fileLevel,
		newViolation(5, "qunit/no-reset"),
	}, directives)

	assert.Len(t, filtered.Suppressed, 3)
	require.Len(t, filtered.Violations, 1)
	assert.Equal(t, "qunit/no-reset", filtered.Violations[0].RuleCode)
}

func TestFilterUnused(t *testing.T) {
	t.Parallel()

	directives := Parse([]jsparse.Comment{
		lineComment(1, "// qunitlint-disable-next-line no-reset"),
		lineComment(5, "// qunitlint-disable-next-line no-throws-string"),
	}, nil).Directives

	filtered := Filter([]rules.Violation{newViolation(2, "qunit/no-reset")}, directives)
	require.Len(t, filtered.UnusedDirectives, 1)
	assert.Equal(t, 4, filtered.UnusedDirectives[0].Line)
	assert.False(t, directives[0].Used, "input directives are not mutated")
}

func TestFilterFirstMatchWins(t *testing.T) {
	t.Parallel()

	directives := Parse([]jsparse.Comment{
		blockComment(1, 1, "/* qunitlint-disable */"),
		lineComment(2, "// qunitlint-disable-next-line no-reset"),
	}, nil).Directives

	filtered := Filter([]rules.Violation{newViolation(3, "qunit/no-reset")}, directives)
	assert.Len(t, filtered.Suppressed, 1)
	require.Len(t, filtered.UnusedDirectives, 1)
	assert.Equal(t, TypeNextLine, filtered.UnusedDirectives[0].Type)
}

func TestFilterEmpty(t *testing.T) {
	t.Parallel()

	filtered := Filter(nil, nil)
	assert.Empty(t, filtered.Violations)
	assert.Empty(t, filtered.Suppressed)
	assert.Empty(t, filtered.UnusedDirectives)

	filtered = Filter([]rules.Violation{newViolation(1, "qunit/no-reset")}, nil)
	assert.Len(t, filtered.Violations, 1)
}

func TestDirectiveType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "next-line", TypeNextLine.String())
	assert.Equal(t, "line", TypeSameLine.String())
	assert.Equal(t, "global", TypeGlobal.String())
	assert.Equal(t, "unknown", DirectiveType(99).String())
}

func TestLineRange_Contains(t *testing.T) {
	t.Parallel()

	r := LineRange{Start: 2, End: 4}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
	assert.True(t, GlobalRange().Contains(1_000_000))
	assert.False(t, GlobalRange().Contains(-1))
}
