package config

// Severity names accepted in rule entries. ESLint's numeric levels are
// accepted as well.
var severityEnum = []any{"off", "error", "warning", "warn", "info", "style", 0, 1, 2, "0", "1", "2"}

// OutputFormats lists the accepted values of output.format.
var OutputFormats = []string{"text", "json", "sarif", "github-actions", "markdown", "auto"}

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func ruleEntrySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"severity": map[string]any{"enum": severityEnum},
			"exclude": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"paths": stringArraySchema(),
				},
				"additionalProperties": false,
			},
		},
	}
}

func enumOf(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// rootSchema describes the config file. Rule options are validated
// separately against each rule's own schema.
func rootSchema() map[string]any {
	namespace := map[string]any{
		"type":                 "object",
		"additionalProperties": ruleEntrySchema(),
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"rules": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"include":          stringArraySchema(),
					"exclude":          stringArraySchema(),
					NamespaceQUnit:     namespace,
					NamespaceQUnitlint: namespace,
				},
				"additionalProperties": false,
			},
			"output": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"format":      map[string]any{"enum": enumOf(OutputFormats)},
					"path":        map[string]any{"type": "string"},
					"show-source": map[string]any{"type": "boolean"},
					"fail-level": map[string]any{
						"enum": []any{"error", "warning", "info", "style", "none"},
					},
				},
				"additionalProperties": false,
			},
			"inline-directives": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"enabled":        map[string]any{"type": "boolean"},
					"warn-unused":    map[string]any{"type": "boolean"},
					"validate-rules": map[string]any{"type": "boolean"},
					"require-reason": map[string]any{"type": "boolean"},
				},
				"additionalProperties": false,
			},
			"discovery": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"patterns": stringArraySchema(),
					"exclude":  stringArraySchema(),
				},
				"additionalProperties": false,
			},
			"file-validation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"max-file-size": map[string]any{"type": "integer", "minimum": 0},
				},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}
}
