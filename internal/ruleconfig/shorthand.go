// Package ruleconfig normalizes the short forms a rule entry may take in the
// config file into the canonical table form:
//
//	[rules.qunit]
//	no-reset = "off"                   # severity shorthand
//	no-throws-string = 2               # ESLint numeric severity
//	resolve-async = ["setup", "init"]  # rule-specific option shorthand
package ruleconfig

import (
	"math"
	"strconv"
	"strings"
)

type shorthandKind int

const (
	shorthandStringList shorthandKind = iota
)

type shorthandSpec struct {
	optionKey string
	kind      shorthandKind
}

var shorthandByRule = map[string]shorthandSpec{
	"qunit/resolve-async": {optionKey: "hooks", kind: shorthandStringList},
}

// CanonicalizeRuleOptions converts supported shorthand values to canonical
// object form used by schema validation and config resolution.
func CanonicalizeRuleOptions(ruleCode string, value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return value
	case string:
		return map[string]any{"severity": typed}
	}
	if isIntegerLike(value) {
		return map[string]any{"severity": value}
	}

	spec, ok := shorthandByRule[ruleCode]
	if !ok {
		return value
	}
	switch spec.kind {
	case shorthandStringList:
		if !isStringList(value) {
			return value
		}
	}
	return map[string]any{spec.optionKey: value}
}

// CanonicalizeRulesMap normalizes shorthand values in rules.<namespace>.<rule>
// entries in-place.
func CanonicalizeRulesMap(rules map[string]any) {
	for namespace, namespaceRaw := range rules {
		ruleEntries, ok := namespaceRaw.(map[string]any)
		if !ok {
			continue
		}

		for ruleName, value := range ruleEntries {
			ruleCode := namespace + "/" + ruleName
			ruleEntries[ruleName] = CanonicalizeRuleOptions(ruleCode, value)
		}
	}
}

func isStringList(value any) bool {
	switch typed := value.(type) {
	case []string:
		return true
	case []any:
		for _, item := range typed {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isIntegerLike(value any) bool {
	switch typed := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint:
		return uint64(typed) <= math.MaxInt64
	case uint64:
		return typed <= math.MaxInt64
	case uint8, uint16, uint32:
		return true
	case float64:
		return typed == math.Trunc(typed) && !math.IsInf(typed, 0) && !math.IsNaN(typed) &&
			typed >= math.MinInt64 && typed <= math.MaxInt64
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		return err == nil
	default:
		return false
	}
}
