package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/sourcemap"
)

const snippetSource = `QUnit.module('m');
QUnit.test('t', function (assert) {
  var done = assert.async();
  stop();
});
`

func TestSnippetAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		loc      rules.Location
		existing string
		want     string
	}{
		{"point", rules.NewLineLocation("test.js", 2), "", "QUnit.test('t', function (assert) {"},
		{
			"range exclusive end",
			rules.NewRangeLocation("test.js", 2, 0, 4, 0),
			"",
			"QUnit.test('t', function (assert) {\n  var done = assert.async();",
		},
		{
			"range with end column",
			rules.NewRangeLocation("test.js", 3, 13, 4, 9),
			"",
			"  var done = assert.async();\n  stop();",
		},
		{"single line range", rules.NewRangeLocation("test.js", 4, 2, 4, 9), "", "  stop();"},
		{"keeps existing", rules.NewLineLocation("test.js", 1), "custom", "custom"},
		{"file level", rules.NewFileLocation("test.js"), "", ""},
		{"missing source", rules.NewLineLocation("other.js", 1), "", ""},
		{"line zero", rules.NewLineLocation("test.js", 0), "", ""},
		{"negative line", rules.NewLineLocation("test.js", -1), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := rules.NewViolation(tt.loc, "qunit/resolve-async", "msg", rules.SeverityError).
				WithSourceCode(tt.existing)
			ctx := NewContext(nil, config.Default(), map[string][]byte{
				"test.js": []byte(snippetSource),
			})

			result := NewSnippetAttachment().Process([]rules.Violation{v}, ctx)
			require.Len(t, result, 1)
			assert.Equal(t, tt.want, result[0].SourceCode)
		})
	}
}

func TestExtractSnippet(t *testing.T) {
	t.Parallel()

	sm := sourcemap.New([]byte(snippetSource))
	assert.Equal(t, "QUnit.module('m');", extractSnippet(sm, rules.NewLineLocation("test.js", 1)))
	assert.Empty(t, extractSnippet(sm, rules.NewLineLocation("test.js", 99)))
}
