package config

import (
	"maps"
	"strings"

	"github.com/wharflab/qunitlint/internal/rules/configutil"
)

// Rule namespaces accepted under [rules].
const (
	NamespaceQUnit     = "qunit"
	NamespaceQUnitlint = "qunitlint"
)

// RuleNamespaces lists the namespaces that carry per-rule tables.
var RuleNamespaces = []string{NamespaceQUnit, NamespaceQUnitlint}

// RuleConfig represents per-rule configuration.
// Can be specified in TOML as:
//
//	[rules.qunit.resolve-async]
//	severity = "warning"
//	exclude.paths = ["legacy/**"]
//	# Rule-specific options are flattened at this level
//	hooks = ["setup", "teardown", "beforeEach", "afterEach", "before", "after"]
type RuleConfig struct {
	// Severity overrides the rule's default severity.
	// Use "off" to disable the rule.
	Severity string `json:"severity,omitempty" koanf:"severity"`

	// Exclude contains path patterns where this rule should not run.
	Exclude ExcludeConfig `json:"exclude" koanf:"exclude"`

	// Options contains rule-specific configuration options.
	Options map[string]any `json:"-" koanf:",remain"`
}

// ExcludeConfig defines file exclusion patterns for a rule.
type ExcludeConfig struct {
	// Paths contains glob patterns for files to exclude.
	Paths []string `json:"paths,omitempty" koanf:"paths"`
}

// RulesConfig contains rule selection and per-rule configuration.
//
// Example TOML (Ruff-style selection):
//
//	[rules]
//	include = ["qunit/*"]        # Enable all qunit rules
//	exclude = ["qunit/no-reset"] # Disable specific rules
//
//	[rules.qunit]
//	no-throws-string = "warning" # severity shorthand
//
//	[rules.qunit.resolve-async]
//	severity = "error"
//	hooks = ["beforeEach", "afterEach"]
type RulesConfig struct {
	// Include explicitly enables rules.
	Include []string `json:"include,omitempty" koanf:"include"`

	// Exclude explicitly disables rules.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`

	// QUnit contains configuration for qunit/* rules.
	QUnit map[string]RuleConfig `json:"qunit,omitempty" koanf:"qunit"`

	// QUnitlint contains configuration for the linter's own qunitlint/*
	// diagnostics (unused directives and the like).
	QUnitlint map[string]RuleConfig `json:"qunitlint,omitempty" koanf:"qunitlint"`
}

// Get returns the configuration for a specific rule.
// Returns nil if no configuration exists for the rule.
// ruleCode should be namespaced (e.g., "qunit/resolve-async").
func (rc *RulesConfig) Get(ruleCode string) *RuleConfig {
	if rc == nil {
		return nil
	}
	ns, name := parseRuleCode(ruleCode)
	nsMap := rc.namespaceMap(ns)
	if nsMap == nil {
		return nil
	}
	if cfg, ok := nsMap[name]; ok {
		return &cfg
	}
	return nil
}

// parseRuleCode parses a rule code into namespace and name.
// "qunit/no-reset" -> ("qunit", "no-reset")
// "no-reset" -> ("", "no-reset")
func parseRuleCode(ruleCode string) (string, string) {
	if idx := strings.Index(ruleCode, "/"); idx > 0 {
		return ruleCode[:idx], ruleCode[idx+1:]
	}
	return "", ruleCode
}

// IsEnabled checks if a rule is enabled based on Include/Exclude patterns.
// Returns nil if no configuration specifies enabled/disabled (use rule default).
// Include takes precedence over Exclude (Ruff-style semantics).
func (rc *RulesConfig) IsEnabled(ruleCode string) *bool {
	if rc == nil {
		return nil
	}

	if matchesAnyPattern(ruleCode, rc.Include) {
		return boolPtr(true)
	}

	if matchesAnyPattern(ruleCode, rc.Exclude) {
		return boolPtr(false)
	}

	return nil
}

// matchesAnyPattern checks if ruleCode matches any pattern in the list.
// Patterns can be:
// - Exact match: "qunit/no-reset"
// - Namespace wildcard: "qunit/*"
// - Universal wildcard: "*"
func matchesAnyPattern(ruleCode string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(ruleCode, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(ruleCode, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if ruleCode == pattern {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		ns, _ := parseRuleCode(ruleCode)
		return ns == prefix
	}

	return false
}

// GetSeverity returns the severity override for a rule.
// Returns empty string if no override is configured.
func (rc *RulesConfig) GetSeverity(ruleCode string) string {
	if rc == nil {
		return ""
	}
	if cfg := rc.Get(ruleCode); cfg != nil && cfg.Severity != "" {
		return cfg.Severity
	}
	return ""
}

// GetExcludePaths returns the exclusion patterns for a rule.
func (rc *RulesConfig) GetExcludePaths(ruleCode string) []string {
	if rc == nil {
		return nil
	}
	if cfg := rc.Get(ruleCode); cfg != nil {
		if cfg.Exclude.Paths == nil {
			return nil
		}
		out := make([]string, len(cfg.Exclude.Paths))
		copy(out, cfg.Exclude.Paths)
		return out
	}
	return nil
}

// GetOptions returns rule-specific options.
// Returns nil if no options are configured.
// Returns a shallow copy to prevent mutation of internal state.
func (rc *RulesConfig) GetOptions(ruleCode string) map[string]any {
	if rc == nil {
		return nil
	}
	if cfg := rc.Get(ruleCode); cfg != nil {
		if len(cfg.Options) == 0 {
			return nil
		}
		out := make(map[string]any, len(cfg.Options))
		maps.Copy(out, cfg.Options)
		return out
	}
	return nil
}

// DecodeRuleOptions returns typed rule options merged over defaults.
// Returns defaults if the rule has no options or decoding fails.
func DecodeRuleOptions[T any](rc *RulesConfig, ruleCode string, defaults T) T {
	if rc == nil {
		return defaults
	}
	return configutil.Resolve(rc.GetOptions(ruleCode), defaults)
}

// Set stores configuration for a rule.
// Creates the namespace map if nil.
// Returns false if the namespace is unknown.
func (rc *RulesConfig) Set(ruleCode string, cfg RuleConfig) bool {
	ns, name := parseRuleCode(ruleCode)
	switch ns {
	case NamespaceQUnit:
		if rc.QUnit == nil {
			rc.QUnit = make(map[string]RuleConfig)
		}
		rc.QUnit[name] = cfg
		return true
	case NamespaceQUnitlint:
		if rc.QUnitlint == nil {
			rc.QUnitlint = make(map[string]RuleConfig)
		}
		rc.QUnitlint[name] = cfg
		return true
	default:
		return false
	}
}

func (rc *RulesConfig) namespaceMap(ns string) map[string]RuleConfig {
	switch ns {
	case NamespaceQUnit:
		return rc.QUnit
	case NamespaceQUnitlint:
		return rc.QUnitlint
	default:
		return nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}
