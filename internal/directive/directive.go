// Package directive provides inline suppression directives for linting.
//
// Directives are JavaScript comments in one of two dialects:
//   - qunitlint: // qunitlint-disable-next-line no-reset
//   - eslint:    // eslint-disable-next-line qunit/no-reset (migration compatibility)
//
// Directives can be:
//   - Next-line: qunitlint-disable-next-line affects the line after the comment
//   - Same-line: qunitlint-disable-line affects the line the comment is on
//   - Global: a /* qunitlint-disable */ block comment affects the entire file
//
// Everything after a " -- " separator is the reason for the suppression.
package directive

import (
	"math"
	"strings"

	"github.com/wharflab/qunitlint/internal/jsast"
)

// DirectiveType indicates the scope of a directive.
type DirectiveType int

const (
	// TypeNextLine affects only the line following the comment.
	TypeNextLine DirectiveType = iota
	// TypeSameLine affects the line the comment ends on.
	TypeSameLine
	// TypeGlobal affects the entire file.
	TypeGlobal
)

// String returns a human-readable name for the directive type.
func (t DirectiveType) String() string {
	switch t {
	case TypeNextLine:
		return "next-line"
	case TypeSameLine:
		return "line"
	case TypeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// LineRange represents a range of lines affected by a directive.
// Line numbers are 0-based to match SourceMap conventions.
type LineRange struct {
	// Start is the 0-based line number (inclusive).
	Start int
	// End is the 0-based line number (inclusive).
	// For global directives, this is math.MaxInt.
	End int
}

// Contains returns true if the given 0-based line is within the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// GlobalRange returns a LineRange that covers the entire file.
func GlobalRange() LineRange {
	return LineRange{Start: 0, End: math.MaxInt}
}

// AllRules is the rule list entry of a directive that names no rules.
const AllRules = "all"

// Directive represents a parsed inline suppression directive.
type Directive struct {
	// Type indicates whether this is a next-line, same-line or global directive.
	Type DirectiveType

	// Rules contains the rule codes to suppress.
	// A single-element slice containing AllRules means suppress all rules.
	Rules []string

	// Line is the 0-based line number where the directive comment starts.
	Line int

	// Range is the span of the comment carrying the directive.
	Range jsast.Range

	// AppliesTo is the range of lines affected by this directive.
	AppliesTo LineRange

	// Used is set to true when this directive suppresses at least one violation.
	// Used for unused directive detection.
	Used bool

	// RawText is the original comment text (for error messages).
	RawText string

	// Source indicates which dialect the directive used.
	Source DirectiveSource

	// Reason is an optional explanation for why the rule is being suppressed.
	// Extracted from the text after " -- " in the directive comment.
	Reason string
}

// DirectiveSource identifies which syntax dialect was used.
type DirectiveSource string

const (
	// SourceQUnitlint indicates qunitlint-disable... syntax.
	SourceQUnitlint DirectiveSource = "qunitlint"
	// SourceESLint indicates eslint-disable... syntax naming qunit rules.
	SourceESLint DirectiveSource = "eslint"
)

// SuppressesAll reports whether the directive names no specific rule.
func (d *Directive) SuppressesAll() bool {
	return len(d.Rules) == 1 && d.Rules[0] == AllRules
}

// SuppressesRule returns true if this directive suppresses the given rule code.
// Supports both namespaced (qunit/no-reset) and non-namespaced (no-reset) forms.
func (d *Directive) SuppressesRule(ruleCode string) bool {
	for _, r := range d.Rules {
		if r == AllRules || matchesRule(r, ruleCode) {
			return true
		}
	}
	return false
}

// matchesRule checks if a directive rule pattern matches a rule code.
// Supports:
//   - Exact match: "qunit/no-reset" matches "qunit/no-reset"
//   - Suffix match: "no-reset" matches "qunit/no-reset"
//   - Prefix match: "qunit/no-reset" matches "no-reset" (directive is more specific)
func matchesRule(pattern, ruleCode string) bool {
	if pattern == ruleCode {
		return true
	}

	if idx := strings.LastIndexByte(ruleCode, '/'); idx != -1 {
		if pattern == ruleCode[idx+1:] {
			return true
		}
	}

	if idx := strings.LastIndexByte(pattern, '/'); idx != -1 {
		if ruleCode == pattern[idx+1:] {
			return true
		}
	}

	return false
}

// SuppressesLine returns true if this directive suppresses violations on the given line.
// Line is 0-based.
func (d *Directive) SuppressesLine(line int) bool {
	return d.AppliesTo.Contains(line)
}

// ParseResult contains all directives parsed from a file plus any errors.
type ParseResult struct {
	// Directives contains successfully parsed directives.
	Directives []Directive

	// Errors contains parse errors for malformed directives.
	Errors []ParseError
}

// ParseError represents an error parsing a directive.
type ParseError struct {
	// Line is the 0-based line number where the error occurred.
	Line int

	// Range is the span of the offending comment.
	Range jsast.Range

	// Message describes what went wrong.
	Message string

	// RawText is the original comment text.
	RawText string
}
