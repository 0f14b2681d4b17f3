package processor

import (
	"maps"
	"slices"
	"strings"

	"github.com/wharflab/qunitlint/internal/directive"
	"github.com/wharflab/qunitlint/internal/jsast"
	"github.com/wharflab/qunitlint/internal/rules"
)

// Diagnostics the inline directive filter reports about directives themselves.
const (
	UnusedDirectiveRuleCode        = rules.LinterRulePrefix + "unused-directive"
	MissingDirectiveReasonRuleCode = rules.LinterRulePrefix + "missing-directive-reason"
	InvalidDirectiveRuleCode       = rules.LinterRulePrefix + "invalid-directive"
)

// DirectiveRuleCodes lists the rule codes produced by InlineDirectiveFilter.
var DirectiveRuleCodes = []string{
	InvalidDirectiveRuleCode,
	MissingDirectiveReasonRuleCode,
	UnusedDirectiveRuleCode,
}

// InlineDirectiveFilter suppresses violations named by inline comment
// directives. Diagnostics about the directives (invalid, unused, missing a
// reason) are collected and exposed via AdditionalViolations, since they
// must not be suppressed by the directives they describe.
type InlineDirectiveFilter struct {
	registry   *rules.Registry
	additional []rules.Violation
}

// NewInlineDirectiveFilter creates an inline directive filter backed by the
// default rule registry.
func NewInlineDirectiveFilter() *InlineDirectiveFilter {
	return NewInlineDirectiveFilterWithRegistry(rules.DefaultRegistry())
}

// NewInlineDirectiveFilterWithRegistry creates a filter validating rule codes
// against registry.
func NewInlineDirectiveFilterWithRegistry(registry *rules.Registry) *InlineDirectiveFilter {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	return &InlineDirectiveFilter{registry: registry}
}

// Name returns the processor's identifier.
func (p *InlineDirectiveFilter) Name() string {
	return "inline-directive-filter"
}

// AdditionalViolations returns the directive diagnostics from the last
// Process call.
func (p *InlineDirectiveFilter) AdditionalViolations() []rules.Violation {
	return p.additional
}

// knownRule reports whether code names a registered rule or a directive
// diagnostic, with or without its namespace.
func (p *InlineDirectiveFilter) knownRule(code string) bool {
	if p.registry.Has(code) || slices.Contains(DirectiveRuleCodes, code) {
		return true
	}
	if strings.Contains(code, "/") {
		return false
	}
	return p.registry.Has(rules.QUnitRulePrefix+code) ||
		slices.Contains(DirectiveRuleCodes, rules.LinterRulePrefix+code)
}

// Process filters violations file by file. Files with comments but no
// violations are still visited so unused directives are found.
func (p *InlineDirectiveFilter) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	p.additional = nil

	byFile := make(map[string][]rules.Violation)
	var order []string
	for _, v := range violations {
		if _, ok := byFile[v.Location.File]; !ok {
			order = append(order, v.Location.File)
		}
		byFile[v.Location.File] = append(byFile[v.Location.File], v)
	}
	for _, file := range slices.Sorted(maps.Keys(ctx.FileComments)) {
		if _, ok := byFile[file]; !ok {
			order = append(order, file)
		}
	}

	result := make([]rules.Violation, 0, len(violations))
	for _, file := range order {
		fileViolations := byFile[file]
		comments := ctx.FileComments[file]
		cfg := ctx.ConfigForFile(file)
		if len(comments) == 0 || (cfg != nil && !cfg.InlineDirectives.Enabled) {
			result = append(result, fileViolations...)
			continue
		}

		var validator directive.RuleValidator
		if cfg == nil || cfg.InlineDirectives.ValidateRules {
			validator = p.knownRule
		}
		parsed := directive.Parse(comments, validator)
		filtered := directive.Filter(fileViolations, parsed.Directives)
		result = append(result, filtered.Violations...)

		for _, perr := range parsed.Errors {
			p.additional = append(p.additional, directiveViolation(file, perr.Range,
				InvalidDirectiveRuleCode, "Invalid suppression directive: "+perr.Message))
		}
		if cfg == nil {
			continue
		}
		if cfg.InlineDirectives.WarnUnused {
			for _, d := range filtered.UnusedDirectives {
				if d.Source == directive.SourceESLint && d.SuppressesAll() {
					continue
				}
				p.additional = append(p.additional, directiveViolation(file, d.Range,
					UnusedDirectiveRuleCode, unusedMessage(d)))
			}
		}
		if cfg.InlineDirectives.RequireReason {
			for _, d := range parsed.Directives {
				if d.Reason != "" || (d.Source == directive.SourceESLint && d.SuppressesAll()) {
					continue
				}
				p.additional = append(p.additional, directiveViolation(file, d.Range,
					MissingDirectiveReasonRuleCode,
					`Suppression directive has no reason; append "-- <reason>"`))
			}
		}
	}

	return result
}

func unusedMessage(d directive.Directive) string {
	if d.SuppressesAll() {
		return "Unused suppression directive (no violations reported)"
	}
	return "Unused suppression directive (no " + strings.Join(d.Rules, ", ") + " violations reported)"
}

const directiveDocURL = "https://github.com/wharflab/qunitlint/blob/main/docs/directives.md"

func directiveViolation(file string, r jsast.Range, code, message string) rules.Violation {
	loc := rules.NewRangeLocation(file, r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
	return rules.NewViolation(loc, code, message, rules.SeverityWarning).WithDocURL(directiveDocURL)
}
