package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig_CoercesStringTypesUsingSchema(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"rules": map[string]any{
			"include": "qunit/*, qunitlint/*",
			"qunit": map[string]any{
				"resolve-async": map[string]any{
					"hooks": `["setup","before"]`,
				},
			},
		},
		"output": map[string]any{
			"show-source": "false",
		},
		"inline-directives": map[string]any{
			"warn-unused": "true",
		},
		"file-validation": map[string]any{
			"max-file-size": "4096",
		},
	}

	cfg, err := decodeConfig(raw)
	require.NoError(t, err)

	assert.False(t, cfg.Output.ShowSource)
	assert.True(t, cfg.InlineDirectives.WarnUnused)
	assert.Equal(t, int64(4096), cfg.FileValidation.MaxFileSize)
	assert.Equal(t, []string{"qunit/*", "qunitlint/*"}, cfg.Rules.Include)
	assert.Equal(t, []any{"setup", "before"}, cfg.Rules.GetOptions("qunit/resolve-async")["hooks"])
}

func TestDecodeConfig_RejectsUncoercibleValues(t *testing.T) {
	t.Parallel()

	_, err := decodeConfig(map[string]any{
		"output": map[string]any{"show-source": "sometimes"},
	})
	require.Error(t, err)
}

func TestDecodeConfig_SeverityShorthand(t *testing.T) {
	t.Parallel()

	cfg, err := decodeConfig(map[string]any{
		"rules": map[string]any{
			"qunit": map[string]any{
				"no-reset":         "off",
				"no-throws-string": int64(1),
				"resolve-async":    []any{"beforeEach"},
			},
			"qunitlint": map[string]any{
				"unused-directive": "error",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "off", cfg.Rules.GetSeverity("qunit/no-reset"))
	assert.Equal(t, "1", cfg.Rules.GetSeverity("qunit/no-throws-string"))
	assert.Equal(t, "error", cfg.Rules.GetSeverity("qunitlint/unused-directive"))
	assert.Equal(t, []any{"beforeEach"}, cfg.Rules.GetOptions("qunit/resolve-async")["hooks"])
}

func TestPruneNil(t *testing.T) {
	t.Parallel()

	var nilSlice []string
	var nilMap map[string]RuleConfig
	raw := map[string]any{
		"a": nil,
		"b": nilSlice,
		"c": map[string]any{"d": nilMap, "e": "kept"},
		"f": []string{},
	}
	pruneNil(raw)

	assert.Equal(t, map[string]any{
		"c": map[string]any{"e": "kept"},
		"f": []string{},
	}, raw)
}

func TestNormalizeOutputAliases(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"format": "json",
		"path":   "out.json",
		"output": map[string]any{"path": "explicit.json"},
	}
	normalizeOutputAliases(raw)

	assert.Equal(t, map[string]any{
		"output": map[string]any{"format": "json", "path": "explicit.json"},
	}, raw)
}
