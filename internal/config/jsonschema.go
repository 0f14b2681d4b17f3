package config

import (
	"maps"
	"strings"

	"github.com/wharflab/qunitlint/internal/rules"
)

// JSONSchema returns the configuration schema with every registered rule's
// options expanded under its namespace, suitable for editor tooling.
func JSONSchema() map[string]any {
	schema := rootSchema()
	schema["$id"] = "https://github.com/wharflab/qunitlint/schema.json"
	schema["title"] = "qunitlint configuration"

	rulesProps := schema["properties"].(map[string]any)["rules"].(map[string]any)["properties"].(map[string]any)

	perNamespace := map[string]map[string]any{}
	for _, r := range rules.All() {
		meta := r.Metadata()
		ns, name, ok := strings.Cut(meta.Code, "/")
		if !ok {
			continue
		}

		entry := ruleEntrySchema()
		entry["description"] = meta.Description
		props := entry["properties"].(map[string]any)
		if cr, ok := r.(rules.ConfigurableRule); ok {
			if opts, ok := cr.Schema()["properties"].(map[string]any); ok {
				maps.Copy(props, opts)
			}
		}
		entry["additionalProperties"] = false

		if perNamespace[ns] == nil {
			perNamespace[ns] = map[string]any{}
		}
		perNamespace[ns][name] = map[string]any{
			"oneOf": []any{
				map[string]any{"enum": severityEnum},
				entry,
			},
		}
	}

	for ns, props := range perNamespace {
		nsSchema, ok := rulesProps[ns].(map[string]any)
		if !ok {
			continue
		}
		// Namespaces share one map in rootSchema.
		nsSchema = maps.Clone(nsSchema)
		nsSchema["properties"] = props
		rulesProps[ns] = nsSchema
	}
	return schema
}
