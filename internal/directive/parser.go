package directive

import (
	"regexp"
	"strings"

	"github.com/wharflab/qunitlint/internal/jsparse"
)

var (
	// qunitlint-disable[-next-line|-line] [RULE1, RULE2]
	directivePattern = regexp.MustCompile(`^(qunitlint|eslint)-disable(-next-line|-line)?(?:\s+([\s\S]*))?$`)

	// ESLint separates the description from the directive with two or more dashes.
	reasonSeparator = regexp.MustCompile(`\s-{2,}\s`)
)

// ESLint rule names the linter answers to. Other plugins' rules in an
// eslint directive are left to ESLint.
var eslintPrefixes = []string{"qunit/", "qunitlint/"}

// RuleValidator is a function that checks if a rule code is known.
// Returns true if the rule exists in the registry.
type RuleValidator func(string) bool

// Parse extracts all inline directives from the comments of a file.
// If validator is non-nil, unknown rule codes generate parse errors.
func Parse(comments []jsparse.Comment, validator RuleValidator) *ParseResult {
	result := &ParseResult{}

	for _, comment := range comments {
		d, err := parseComment(comment)
		if err != nil {
			result.Errors = append(result.Errors, *err)
			continue
		}
		if d != nil {
			validateDirective(d, validator, result)
		}
	}

	return result
}

// validateDirective validates rule codes and adds the directive or errors.
func validateDirective(d *Directive, validator RuleValidator, result *ParseResult) {
	if validator != nil {
		unknownRules := []string{}
		for _, rule := range d.Rules {
			if rule != AllRules && !validator(rule) {
				unknownRules = append(unknownRules, rule)
			}
		}
		if len(unknownRules) > 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:    d.Line,
				Range:   d.Range,
				Message: "unknown rule code(s): " + strings.Join(unknownRules, ", "),
				RawText: d.RawText,
			})
		}
	}
	result.Directives = append(result.Directives, *d)
}

// commentBody strips the comment markers.
func commentBody(c jsparse.Comment) string {
	text := c.Text
	if c.Block {
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	} else {
		text = strings.TrimPrefix(text, "//")
	}
	return strings.TrimSpace(text)
}

// parseComment returns the directive carried by a comment, nil for plain
// comments, or a parse error for a malformed qunitlint directive. Malformed
// eslint directives are ignored.
func parseComment(c jsparse.Comment) (*Directive, *ParseError) {
	body := commentBody(c)
	reason := ""
	if loc := reasonSeparator.FindStringIndex(body); loc != nil {
		reason = strings.TrimSpace(body[loc[1]:])
		body = strings.TrimSpace(body[:loc[0]])
	}

	matches := directivePattern.FindStringSubmatch(body)
	if matches == nil {
		return nil, nil
	}

	source := DirectiveSource(matches[1])
	startLine := c.Range.Start.Line - 1
	endLine := c.Range.End.Line - 1
	fail := func(msg string) (*Directive, *ParseError) {
		if source != SourceQUnitlint {
			return nil, nil
		}
		return nil, &ParseError{Line: startLine, Range: c.Range, Message: msg, RawText: c.Text}
	}

	d := &Directive{
		Line:    startLine,
		Range:   c.Range,
		RawText: c.Text,
		Source:  source,
		Reason:  reason,
	}

	switch matches[2] {
	case "-next-line":
		if startLine != endLine {
			return fail(matches[1] + "-disable-next-line comment should not span multiple lines")
		}
		d.Type = TypeNextLine
		d.AppliesTo = LineRange{Start: endLine + 1, End: endLine + 1}
	case "-line":
		if startLine != endLine {
			return fail(matches[1] + "-disable-line comment should not span multiple lines")
		}
		d.Type = TypeSameLine
		d.AppliesTo = LineRange{Start: endLine, End: endLine}
	default:
		if !c.Block {
			return fail(matches[1] + "-disable must be a block comment; use " +
				matches[1] + "-disable-next-line for a single line")
		}
		d.Type = TypeGlobal
		d.AppliesTo = GlobalRange()
	}

	d.Rules = parseRuleList(matches[3])
	if source == SourceESLint && !d.SuppressesAll() {
		d.Rules = filterESLintRules(d.Rules)
		if len(d.Rules) == 0 {
			return nil, nil
		}
	}

	return d, nil
}

// parseRuleList parses a comma-separated list of rule codes. An empty
// list suppresses every rule.
func parseRuleList(s string) []string {
	parts := strings.Split(s, ",")
	rules := make([]string, 0, len(parts))

	for _, part := range parts {
		rule := strings.TrimSpace(part)
		if rule == "" {
			continue
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return []string{AllRules}
	}
	return rules
}

func filterESLintRules(list []string) []string {
	var kept []string
	for _, rule := range list {
		for _, prefix := range eslintPrefixes {
			if strings.HasPrefix(rule, prefix) {
				kept = append(kept, rule)
				break
			}
		}
	}
	return kept
}
