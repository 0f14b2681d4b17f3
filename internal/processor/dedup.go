package processor

import (
	"path/filepath"

	"github.com/wharflab/qunitlint/internal/rules"
)

// Deduplication removes duplicate violations.
// Two violations are duplicates if they share file, start position, rule code
// and message.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

type dedupKey struct {
	file    string
	line    int
	column  int
	rule    string
	message string
}

// Process removes duplicate violations, keeping the first occurrence.
func (p *Deduplication) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	seen := make(map[dedupKey]bool)
	return filterViolations(violations, func(v rules.Violation) bool {
		key := dedupKey{
			file:    filepath.ToSlash(v.Location.File),
			line:    v.Location.Start.Line,
			column:  v.Location.Start.Column,
			rule:    v.RuleCode,
			message: v.Message,
		}
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
