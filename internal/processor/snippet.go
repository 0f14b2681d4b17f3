package processor

import (
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/sourcemap"
)

// SnippetAttachment populates the SourceCode field of violations so
// reporters can show context without re-reading files.
type SnippetAttachment struct{}

// NewSnippetAttachment creates a new snippet attachment processor.
func NewSnippetAttachment() *SnippetAttachment {
	return &SnippetAttachment{}
}

// Name returns the processor's identifier.
func (p *SnippetAttachment) Name() string {
	return "snippet-attachment"
}

// Process attaches source code snippets to violations.
// Skips violations that already have SourceCode set, file-level violations,
// and files missing from the context's FileSources.
func (p *SnippetAttachment) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		if v.SourceCode != "" || v.Location.IsFileLevel() {
			return v
		}

		sm := ctx.GetSourceMap(v.Location.File)
		if sm == nil {
			return v
		}

		return v.WithSourceCode(extractSnippet(sm, v.Location))
	})
}

// extractSnippet returns the lines a location covers.
// Location uses 1-based line numbers; SourceMap uses 0-based.
func extractSnippet(sm *sourcemap.SourceMap, loc rules.Location) string {
	if loc.Start.Line < 1 {
		return ""
	}
	return sm.Snippet(loc.Start.Line-1, loc.EndLine()-1)
}
