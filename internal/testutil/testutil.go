// Package testutil provides test helpers for the QUnit linter.
package testutil

import (
	"context"
	"testing"

	"github.com/wharflab/qunitlint/internal/jsparse"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/sourcemap"
)

// ParseJS parses JavaScript with the production parser and fails the test
// on error.
func ParseJS(tb testing.TB, content string) *jsparse.Result {
	tb.Helper()

	result, err := jsparse.Parse(context.Background(), []byte(content))
	if err != nil {
		tb.Fatalf("failed to parse JavaScript: %v", err)
	}
	return result
}

// MakeLintInput creates a LintInput for testing a rule.
func MakeLintInput(tb testing.TB, file, content string) rules.LintInput {
	tb.Helper()

	result := ParseJS(tb, content)
	return rules.LintInput{
		File:   file,
		AST:    result.Program,
		Source: []byte(content),
	}
}

// MakeLintInputWithConfig creates a LintInput with rule configuration.
func MakeLintInputWithConfig(tb testing.TB, file, content string, config any) rules.LintInput {
	tb.Helper()

	input := MakeLintInput(tb, file, content)
	input.Config = config
	return input
}

// RuleTestCase defines a test case for table-driven rule tests.
type RuleTestCase struct {
	// Name is the test case name.
	Name string

	// Code is the JavaScript source to lint.
	Code string

	// Config is the optional rule configuration.
	Config any

	// WantMessages are the exact expected messages, in report order.
	// An empty slice asserts the code is valid.
	WantMessages []string

	// WantAnchors, when set, are the exact source texts the violations
	// point at, in report order.
	WantAnchors []string
}

// RunRuleTests runs a table of test cases against a rule.
func RunRuleTests(t *testing.T, rule rules.Rule, cases []RuleTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			input := MakeLintInputWithConfig(t, "test.js", tc.Code, tc.Config)
			violations := rule.Check(input)

			if len(violations) != len(tc.WantMessages) {
				t.Errorf("got %d violations, want %d", len(violations), len(tc.WantMessages))
				logViolations(t, violations)
				return
			}
			for i, msg := range tc.WantMessages {
				if violations[i].Message != msg {
					t.Errorf("violation[%d].Message = %q, want %q", i, violations[i].Message, msg)
				}
				if violations[i].RuleCode != rule.Metadata().Code {
					t.Errorf("violation[%d].RuleCode = %q, want %q", i, violations[i].RuleCode, rule.Metadata().Code)
				}
			}
			for i, anchor := range tc.WantAnchors {
				if i >= len(violations) {
					break
				}
				if got := LocationText(input.Source, violations[i].Location); got != anchor {
					t.Errorf("violation[%d] anchored at %q, want %q", i, got, anchor)
				}
			}
		})
	}
}

// LocationText returns the source text a location covers.
func LocationText(source []byte, loc rules.Location) string {
	if loc.IsFileLevel() || loc.IsPointLocation() {
		return ""
	}
	sm := sourcemap.New(source)
	start := sm.LineOffset(loc.Start.Line-1) + loc.Start.Column
	end := sm.LineOffset(loc.End.Line-1) + loc.End.Column
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

func logViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	for _, v := range violations {
		tb.Logf("  - %s at %d:%d: %s", v.RuleCode, v.Line(), v.Location.Start.Column, v.Message)
	}
}

// AssertNoViolations fails the test if there are any violations.
func AssertNoViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	if len(violations) > 0 {
		tb.Errorf("expected no violations, got %d:", len(violations))
		logViolations(tb, violations)
	}
}

// AssertViolationCount fails if the violation count doesn't match.
func AssertViolationCount(tb testing.TB, violations []rules.Violation, want int) {
	tb.Helper()
	if len(violations) != want {
		tb.Errorf("got %d violations, want %d", len(violations), want)
		logViolations(tb, violations)
	}
}
