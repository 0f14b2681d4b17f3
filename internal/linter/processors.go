package linter

import (
	"github.com/wharflab/qunitlint/internal/processor"
	"github.com/wharflab/qunitlint/internal/reporter"
	"github.com/wharflab/qunitlint/internal/rules"
)

// CLIProcessors returns the standard CLI processor chain and the inline directive
// filter (the caller needs it for [processor.InlineDirectiveFilter.AdditionalViolations]).
// A non-nil patch filter restricts results to lines added by that patch.
func CLIProcessors(patch *processor.NewFromPatchFilter) (*processor.Chain, *processor.InlineDirectiveFilter) {
	inlineFilter := processor.NewInlineDirectiveFilter()
	procs := []processor.Processor{
		processor.Func("path-normalization", processor.NormalizePaths),
		processor.NewSeverityOverride(),    // Apply severity overrides (must run before EnableFilter)
		processor.NewEnableFilter(),        // Filter rules with severity="off"
		processor.NewPathExclusionFilter(), // Apply per-rule path exclusions
		inlineFilter,                       // Apply inline ignore directives
	}
	if patch != nil {
		procs = append(procs, patch)
	}
	procs = append(procs,
		processor.NewDeduplication(), // Remove duplicate violations
		processor.Func("sorting", func(v []rules.Violation, _ *processor.Context) []rules.Violation {
			return reporter.SortViolations(v)
		}),
		processor.NewSnippetAttachment(), // Attach source code snippets
	)
	return processor.NewChain(procs...), inlineFilter
}
