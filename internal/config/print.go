package config

import (
	"maps"

	"github.com/pelletier/go-toml/v2"
)

// ToMap returns the configuration in the nested shape of the config file.
// Rule options are flattened into their rule tables.
func (c *Config) ToMap() map[string]any {
	rulesMap := map[string]any{}
	if len(c.Rules.Include) > 0 {
		rulesMap["include"] = c.Rules.Include
	}
	if len(c.Rules.Exclude) > 0 {
		rulesMap["exclude"] = c.Rules.Exclude
	}
	for ns, entries := range map[string]map[string]RuleConfig{
		NamespaceQUnit:     c.Rules.QUnit,
		NamespaceQUnitlint: c.Rules.QUnitlint,
	} {
		if len(entries) == 0 {
			continue
		}
		nsMap := make(map[string]any, len(entries))
		for name, rc := range entries {
			nsMap[name] = rc.toMap()
		}
		rulesMap[ns] = nsMap
	}

	return map[string]any{
		"rules": rulesMap,
		"output": map[string]any{
			"format":      c.Output.Format,
			"path":        c.Output.Path,
			"show-source": c.Output.ShowSource,
			"fail-level":  c.Output.FailLevel,
		},
		"inline-directives": map[string]any{
			"enabled":        c.InlineDirectives.Enabled,
			"warn-unused":    c.InlineDirectives.WarnUnused,
			"validate-rules": c.InlineDirectives.ValidateRules,
			"require-reason": c.InlineDirectives.RequireReason,
		},
		"discovery": map[string]any{
			"patterns": c.Discovery.Patterns,
			"exclude":  c.Discovery.Exclude,
		},
		"file-validation": map[string]any{
			"max-file-size": c.FileValidation.MaxFileSize,
		},
	}
}

func (rc RuleConfig) toMap() map[string]any {
	out := make(map[string]any, len(rc.Options)+2)
	maps.Copy(out, rc.Options)
	if rc.Severity != "" {
		out["severity"] = rc.Severity
	}
	if len(rc.Exclude.Paths) > 0 {
		out["exclude"] = map[string]any{"paths": rc.Exclude.Paths}
	}
	return out
}

// MarshalTOML renders the configuration as a TOML document that Load
// accepts back.
func (c *Config) MarshalTOML() ([]byte, error) {
	return toml.Marshal(c.ToMap())
}
