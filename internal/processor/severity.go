package processor

import (
	"github.com/wharflab/qunitlint/internal/rules"
)

// SeverityOverride applies severity overrides from configuration.
// Allows users to downgrade errors to warnings, upgrade style to errors, etc.
// Also auto-enables rules with DefaultSeverity="off" when options are configured.
type SeverityOverride struct {
	registry *rules.Registry
}

// NewSeverityOverride creates a new severity override processor.
func NewSeverityOverride() *SeverityOverride {
	return NewSeverityOverrideWithRegistry(rules.DefaultRegistry())
}

// NewSeverityOverrideWithRegistry creates a severity override processor with a custom registry.
func NewSeverityOverrideWithRegistry(registry *rules.Registry) *SeverityOverride {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &SeverityOverride{
		registry: registry,
	}
}

// Name returns the processor's identifier.
func (p *SeverityOverride) Name() string {
	return "severity-override"
}

// Process applies severity overrides from config.
func (p *SeverityOverride) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		cfg := ctx.ConfigForFile(v.Location.File)
		if cfg == nil {
			return v
		}

		if override := cfg.Rules.GetSeverity(v.RuleCode); override != "" {
			sev, err := rules.ParseSeverity(override)
			if err != nil {
				// Invalid severity in config - keep original
				return v
			}
			v.Severity = sev
			return v
		}

		// Options on an off-by-default rule opt it in at warning severity.
		ruleConfig := cfg.Rules.Get(v.RuleCode)
		if ruleConfig != nil && len(ruleConfig.Options) > 0 {
			rule := p.registry.Get(v.RuleCode)
			if rule != nil && rule.Metadata().DefaultSeverity == rules.SeverityOff {
				v.Severity = rules.SeverityWarning
			}
		}

		return v
	})
}
