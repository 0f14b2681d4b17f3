package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/jsast"
)

func TestNewViolation(t *testing.T) {
	t.Parallel()

	v := NewViolation(NewLineLocation("test.js", 5), "qunit/no-reset", "msg", SeverityWarning).
		WithDetail("detail").
		WithDocURL("https://example.com").
		WithSourceCode("QUnit.reset();")

	assert.Equal(t, "test.js", v.File())
	assert.Equal(t, 5, v.Line())
	assert.Equal(t, "detail", v.Detail)
	assert.Equal(t, "https://example.com", v.DocURL)
	assert.Equal(t, "QUnit.reset();", v.SourceCode)
}

func TestNewNodeViolation(t *testing.T) {
	t.Parallel()

	meta := RuleMetadata{
		Code:            QUnitRulePrefix + "resolve-async",
		DefaultSeverity: SeverityError,
		DocURL:          "https://example.com/resolve-async",
	}
	n := &jsast.Node{Range: jsast.Range{
		Start: jsast.Position{Line: 1, Column: 0},
		End:   jsast.Position{Line: 1, Column: 10},
	}}
	v := NewNodeViolation(LintInput{File: "t.js"}, meta, n, "Need 1 more start() call")

	assert.Equal(t, "qunit/resolve-async", v.RuleCode)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, meta.DocURL, v.DocURL)
	assert.Equal(t, Position{Line: 1, Column: 0}, v.Location.Start)
}

func TestViolation_JSON(t *testing.T) {
	t.Parallel()

	v := NewViolation(NewLineLocation("t.js", 1), "qunit/no-reset", "Do not use QUnit.reset().", SeverityWarning)
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "qunit/no-reset", got["rule"])
	assert.Equal(t, "warning", got["severity"])
	assert.NotContains(t, got, "detail")
	assert.NotContains(t, got, "sourceCode")
}
