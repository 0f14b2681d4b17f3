package qunit

import (
	"github.com/wharflab/qunitlint/internal/jsast"
	qunitapi "github.com/wharflab/qunitlint/internal/qunit"
	"github.com/wharflab/qunitlint/internal/rules"
)

// NoResetRule reports calls to QUnit.reset(), which was deprecated in
// QUnit 1.16 and removed in 2.0. Fixture resetting is automatic.
type NoResetRule struct{}

// NewNoResetRule creates a new no-reset rule instance.
func NewNoResetRule() *NoResetRule {
	return &NoResetRule{}
}

// Metadata returns the rule metadata.
func (r *NoResetRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             rules.QUnitRulePrefix + "no-reset",
		Name:             "No QUnit.reset",
		Description:      "Disallows the deprecated QUnit.reset() call",
		DocURL:           docBaseURL + "no-reset.md",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         "deprecated",
		EnabledByDefault: true,
	}
}

// Check reports every QUnit.reset() call. Bare references such as
// `QUnit.reset` are left alone.
func (r *NoResetRule) Check(input rules.LintInput) []rules.Violation {
	var violations []rules.Violation
	jsast.Traverse(input.AST, jsast.Listeners{}.On(string(jsast.CallExpression), func(call *jsast.Node) {
		if qunitapi.IsQUnitMethodCall(call, "reset") {
			violations = append(violations, violationAt(input, r, call, "Do not use QUnit.reset()."))
		}
	}))
	return violations
}

func init() {
	rules.Register(NewNoResetRule())
}
