package rules

import "github.com/wharflab/qunitlint/internal/jsast"

// LintInput contains everything a rule needs to check one JavaScript file.
//
// The linter guarantees AST and Source are non-nil when Check is called.
// Files tree-sitter could only partially parse are still linted; the
// recovered tree contains Unknown nodes where input was malformed.
//
// LintInput is read-only. Rules must not mutate the tree or the source.
type LintInput struct {
	// File is the path of the file being linted.
	File string

	// AST is the Program node of the parsed file (guaranteed non-nil).
	AST *jsast.Node

	// Source is the raw file content.
	Source []byte

	// Config is the rule-specific configuration (type depends on rule).
	Config any
}

// Text returns the source text covered by n.
func (in LintInput) Text(n *jsast.Node) string {
	return jsast.Text(n, in.Source)
}

// NodeLocation returns the location of n in this file.
func (in LintInput) NodeLocation(n *jsast.Node) Location {
	return NewNodeLocation(in.File, n)
}

// RuleMetadata contains static information about a rule.
type RuleMetadata struct {
	// Code is the unique identifier (e.g., "qunit/resolve-async").
	Code string

	// Name is the human-readable rule name.
	Name string

	// Description explains what the rule checks.
	Description string

	// DocURL links to detailed documentation.
	DocURL string

	// DefaultSeverity is the severity when not overridden.
	DefaultSeverity Severity

	// Category groups related rules ("correctness", "deprecated", ...).
	Category string

	// EnabledByDefault indicates if the rule runs without explicit opt-in.
	EnabledByDefault bool

	// IsExperimental marks rules that may change or be removed.
	IsExperimental bool
}

// Rule is the interface that all linting rules must implement.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() RuleMetadata

	// Check runs the rule against the given input and returns any violations.
	Check(input LintInput) []Violation
}

// ConfigurableRule is an optional interface for rules that accept configuration.
type ConfigurableRule interface {
	Rule

	// DefaultConfig returns the default configuration for this rule.
	DefaultConfig() any

	// ValidateConfig checks if a configuration is valid for this rule.
	ValidateConfig(config any) error

	// Schema returns the JSON schema describing the rule's options.
	Schema() map[string]any
}
