package rules

import "github.com/wharflab/qunitlint/internal/jsast"

// Violation represents a single linting violation.
type Violation struct {
	// Location specifies where the violation occurred.
	Location Location `json:"location"`

	// RuleCode is the namespaced rule identifier (e.g., "qunit/no-reset").
	RuleCode string `json:"rule"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Detail provides additional context (optional).
	Detail string `json:"detail,omitempty"`

	// Severity indicates how critical this violation is.
	Severity Severity `json:"severity"`

	// DocURL links to documentation about this rule (optional).
	DocURL string `json:"docUrl,omitempty"`

	// SourceCode is the source snippet where the violation occurred (optional).
	// Populated by post-processing; rules don't need to set this.
	SourceCode string `json:"sourceCode,omitempty"`
}

// NewViolation creates a new violation with the minimum required fields.
func NewViolation(loc Location, ruleCode, message string, severity Severity) Violation {
	return Violation{
		Location: loc,
		RuleCode: ruleCode,
		Message:  message,
		Severity: severity,
	}
}

// QUnitRulePrefix is the namespace prefix for the QUnit rules.
const QUnitRulePrefix = "qunit/"

// LinterRulePrefix is the namespace for diagnostics the linter itself
// produces, such as unused suppression directives.
const LinterRulePrefix = "qunitlint/"

// NewNodeViolation creates a violation anchored at a syntax node, taking
// code, severity and documentation link from the rule's metadata.
func NewNodeViolation(input LintInput, meta RuleMetadata, n *jsast.Node, message string) Violation {
	return NewViolation(input.NodeLocation(n), meta.Code, message, meta.DefaultSeverity).
		WithDocURL(meta.DocURL)
}

// WithDetail adds a detail message to the violation.
func (v Violation) WithDetail(detail string) Violation {
	v.Detail = detail
	return v
}

// WithDocURL adds a documentation URL to the violation.
func (v Violation) WithDocURL(url string) Violation {
	v.DocURL = url
	return v
}

// WithSourceCode adds source code snippet to the violation.
func (v Violation) WithSourceCode(code string) Violation {
	v.SourceCode = code
	return v
}

// File returns the file path from the location.
func (v Violation) File() string {
	return v.Location.File
}

// Line returns the starting line number.
func (v Violation) Line() int {
	return v.Location.Start.Line
}
