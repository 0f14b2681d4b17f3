package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/wharflab/qunitlint/internal/ruleconfig"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/rules/configutil"
)

func decodeConfig(raw map[string]any) (*Config, error) {
	if err := validateAndNormalize(raw); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, fmt.Errorf("load normalized config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func validateAndNormalize(raw map[string]any) error {
	pruneNil(raw)
	normalizeOutputAliases(raw)
	normalizeUnnamespacedRules(raw)
	normalizeRuleShorthand(raw)

	schema := rootSchema()
	coerceWithSchema(raw, schema)
	if err := configutil.ValidateWithSchema(raw, schema); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return validateRuleOptions(raw)
}

// validateRuleOptions checks rule-specific options against the schema of the
// registered rule. Options for rules that take none are rejected.
func validateRuleOptions(raw map[string]any) error {
	rulesRaw, ok := raw["rules"].(map[string]any)
	if !ok {
		return nil
	}

	for _, ns := range RuleNamespaces {
		namespaceRaw, ok := rulesRaw[ns].(map[string]any)
		if !ok {
			continue
		}

		for _, name := range slices.Sorted(maps.Keys(namespaceRaw)) {
			entry, ok := namespaceRaw[name].(map[string]any)
			if !ok {
				continue
			}
			opts := optionsFromRuleEntry(entry)
			if len(opts) == 0 {
				continue
			}

			ruleCode := ns + "/" + name
			configurable, ok := rules.Get(ruleCode).(rules.ConfigurableRule)
			if !ok {
				return fmt.Errorf(
					"rule %s does not support options (%s)",
					ruleCode,
					strings.Join(slices.Sorted(maps.Keys(opts)), ", "),
				)
			}

			schema := configurable.Schema()
			coerceWithSchema(opts, schema)
			maps.Copy(entry, opts)
			if err := configutil.ValidateWithSchema(opts, schema); err != nil {
				return fmt.Errorf("invalid options for rule %s: %w", ruleCode, err)
			}
		}
	}

	return nil
}

func normalizeOutputAliases(raw map[string]any) {
	outputRaw, ok := raw["output"].(map[string]any)
	if !ok || outputRaw == nil {
		outputRaw = make(map[string]any)
		raw["output"] = outputRaw
	}

	for _, key := range []string{"format", "path", "show-source", "fail-level"} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if _, exists := outputRaw[key]; !exists {
			outputRaw[key] = value
		}
		delete(raw, key)
	}
}

// normalizeUnnamespacedRules moves [rules.<name>] tables into the qunit
// namespace so `[rules.no-reset]` means `[rules.qunit.no-reset]`.
func normalizeUnnamespacedRules(raw map[string]any) {
	rulesRaw, ok := raw["rules"].(map[string]any)
	if !ok {
		return
	}

	reserved := map[string]struct{}{
		"include": {},
		"exclude": {},
	}
	for _, ns := range RuleNamespaces {
		reserved[ns] = struct{}{}
	}

	var qunitRaw map[string]any
	for key, value := range rulesRaw {
		if _, isReserved := reserved[key]; isReserved {
			continue
		}
		if qunitRaw == nil {
			qunitRaw, ok = rulesRaw[NamespaceQUnit].(map[string]any)
			if !ok || qunitRaw == nil {
				qunitRaw = make(map[string]any)
				rulesRaw[NamespaceQUnit] = qunitRaw
			}
		}
		if _, exists := qunitRaw[key]; !exists {
			qunitRaw[key] = value
		}
		delete(rulesRaw, key)
	}
}

func normalizeRuleShorthand(raw map[string]any) {
	rulesRaw, ok := raw["rules"].(map[string]any)
	if !ok {
		return
	}

	ruleconfig.CanonicalizeRulesMap(rulesRaw)
}

func optionsFromRuleEntry(entry map[string]any) map[string]any {
	if len(entry) == 0 {
		return nil
	}

	options := make(map[string]any, len(entry))
	maps.Copy(options, entry)
	delete(options, "severity")
	delete(options, "exclude")
	if len(options) == 0 {
		return nil
	}
	return options
}

// pruneNil drops nil values left behind by the defaults provider for unset
// slices and maps.
func pruneNil(m map[string]any) {
	for key, value := range m {
		if nested, ok := value.(map[string]any); ok {
			pruneNil(nested)
			continue
		}
		if isNilValue(value) {
			delete(m, key)
		}
	}
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	//exhaustive:ignore
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// coerceWithSchema converts string values to the scalar or list type the
// schema expects. Environment variables always arrive as strings, so
// QUNITLINT_OUTPUT_SHOW_SOURCE=false must become a boolean before
// validation. Values that do not parse are left for the validator to reject.
func coerceWithSchema(m map[string]any, schema map[string]any) {
	props, _ := schema["properties"].(map[string]any)
	additional, _ := schema["additionalProperties"].(map[string]any)

	for key, value := range m {
		sub, ok := props[key].(map[string]any)
		if !ok {
			sub = additional
		}
		if sub == nil {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			coerceWithSchema(nested, sub)
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		if coerced, ok := coerceString(s, sub); ok {
			m[key] = coerced
		}
	}
}

func coerceString(s string, schema map[string]any) (any, bool) {
	switch schema["type"] {
	case "boolean":
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	case "integer":
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
	case "array":
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") {
			var list []any
			if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
				return list, true
			}
			return nil, false
		}
		var list []any
		for part := range strings.SplitSeq(trimmed, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return list, true
	}
	return nil, false
}
