package linter

import (
	"sort"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/rules"
)

// EnabledRuleCodes returns the rule codes that are active for the given config.
func EnabledRuleCodes(cfg *config.Config) []string {
	var enabled []string
	for _, rule := range rules.DefaultRegistry().All() {
		meta := rule.Metadata()
		if isRuleEnabled(meta.Code, meta.DefaultSeverity, cfg) {
			enabled = append(enabled, meta.Code)
		}
	}
	sort.Strings(enabled)
	return enabled
}

// isRuleEnabled checks if a rule is effectively enabled based on config.
func isRuleEnabled(ruleCode string, defaultSeverity rules.Severity, cfg *config.Config) bool {
	if cfg == nil {
		return defaultSeverity != rules.SeverityOff
	}

	// Include/exclude patterns win.
	if enabled := cfg.Rules.IsEnabled(ruleCode); enabled != nil {
		return *enabled
	}

	// Respect explicit severity overrides (on/off).
	if sev := cfg.Rules.GetSeverity(ruleCode); sev != "" {
		parsed, err := rules.ParseSeverity(sev)
		return err != nil || parsed != rules.SeverityOff
	}

	// An "off" rule is auto-enabled by having config options.
	if defaultSeverity == rules.SeverityOff {
		ruleConfig := cfg.Rules.Get(ruleCode)
		return ruleConfig != nil && len(ruleConfig.Options) > 0
	}

	return true
}
