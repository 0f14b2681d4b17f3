package qunit

import (
	"github.com/wharflab/qunitlint/internal/jsast"
	qunitapi "github.com/wharflab/qunitlint/internal/qunit"
	"github.com/wharflab/qunitlint/internal/rules"
)

// NoThrowsStringRule reports assert.throws(block, "string", "message").
//
// QUnit treats a string second argument as the assertion message, not as
// the expected error, so the third argument is silently ignored and any
// thrown error passes.
type NoThrowsStringRule struct{}

// NewNoThrowsStringRule creates a new no-throws-string rule instance.
func NewNoThrowsStringRule() *NoThrowsStringRule {
	return &NoThrowsStringRule{}
}

// Metadata returns the rule metadata.
func (r *NoThrowsStringRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             rules.QUnitRulePrefix + "no-throws-string",
		Name:             "No throws with string expectation",
		Description:      "Disallows assert.throws() and assert.raises() with a string as the expected error",
		DocURL:           docBaseURL + "no-throws-string.md",
		DefaultSeverity:  rules.SeverityError,
		Category:         "correctness",
		EnabledByDefault: true,
	}
}

// Check reports throws/raises calls inside test callbacks whose second
// argument is a string literal and that carry a third argument.
func (r *NoThrowsStringRule) Check(input rules.LintInput) []rules.Violation {
	var violations []rules.Violation

	// Each open test scope carries its assertion parameter name.
	scopes := newFunctionScopes[string]()

	onCall := func(call *jsast.Node) {
		if qunitapi.Classify(call).IsTestRegistration() {
			if fn := qunitapi.TestCallback(call); fn != nil {
				scopes.claim(fn, qunitapi.AssertParam(fn))
			}
			return
		}

		assertVar, ok := scopes.current()
		if !ok || !qunitapi.IsAssertion(call, assertVar, "throws", "raises") {
			return
		}
		if len(call.Arguments) < 3 || !jsast.IsStringLiteral(call.Arguments[1]) {
			return
		}
		msg := "Do not use " + input.Text(call.Callee) + "(block, string, string)."
		violations = append(violations, violationAt(input, r, call, msg).WithDetail(throwsStringDetail))
	}

	jsast.Traverse(input.AST, jsast.Merge(
		jsast.Listeners{}.On(string(jsast.CallExpression), onCall),
		scopes.listeners(nil),
	))
	return violations
}

const throwsStringDetail = "The second argument is the expected error. A string there is " +
	"treated as the assertion message, so any thrown error passes. Pass a RegExp, an " +
	"Error constructor or a validation function instead."

func init() {
	rules.Register(NewNoThrowsStringRule())
}
