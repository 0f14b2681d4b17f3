// Package processor provides a composable violation processing pipeline.
//
// The processor chain pattern is inspired by golangci-lint's approach:
// violations flow through a sequence of processors, each transforming
// the slice (filtering, modifying, or augmenting).
//
// Standard pipeline order:
//  1. NormalizePaths - Cross-platform path consistency
//  2. SeverityOverride - Apply config severity overrides
//  3. EnableFilter - Remove violations for disabled rules
//  4. PathExclusionFilter - Remove per-rule path exclusions
//  5. InlineDirectiveFilter - Apply // qunitlint-disable-next-line ... etc.
//  6. NewFromPatchFilter - Keep only violations on added lines (optional)
//  7. Deduplication - Remove duplicate violations
//  8. Sorting - Stable output ordering (reporter.SortViolations)
//  9. SnippetAttachment - Populate SourceCode field
package processor

import (
	"path/filepath"
	"strings"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/jsparse"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/sourcemap"
)

// Processor transforms a slice of violations.
// Implementations should be stateless where possible, using Context for shared state.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to violations.
	// Returns the transformed slice (may be same, filtered, or modified).
	// Must not modify the input slice; return a new slice if filtering.
	Process(violations []rules.Violation, ctx *Context) []rules.Violation
}

// Context provides shared state for processors.
// Populated once before running the chain, then passed to each processor.
type Context struct {
	// Config is the fallback configuration for files without their own.
	Config *config.Config

	// FileConfigs maps file paths to the configuration discovered for them.
	FileConfigs map[string]*config.Config

	// FileSources maps file paths to their raw source content.
	// Used by SnippetAttachment for extracting source code.
	FileSources map[string][]byte

	// FileComments maps file paths to the comments found when parsing.
	// Used by InlineDirectiveFilter.
	FileComments map[string][]jsparse.Comment

	// SourceMaps caches parsed source maps by file path.
	// Lazily populated by GetSourceMap.
	sourceMaps map[string]*sourcemap.SourceMap
}

// NewContext creates a new processor context.
func NewContext(
	fileConfigs map[string]*config.Config,
	defaultConfig *config.Config,
	fileSources map[string][]byte,
) *Context {
	return &Context{
		Config:       defaultConfig,
		FileConfigs:  fileConfigs,
		FileSources:  fileSources,
		FileComments: make(map[string][]jsparse.Comment),
		sourceMaps:   make(map[string]*sourcemap.SourceMap),
	}
}

// ConfigForFile returns the configuration that applies to file. Paths are
// compared in slash form so normalized violations still find their config.
func (ctx *Context) ConfigForFile(file string) *config.Config {
	if cfg, ok := ctx.FileConfigs[file]; ok && cfg != nil {
		return cfg
	}
	if len(ctx.FileConfigs) > 0 {
		slash := filepath.ToSlash(file)
		for name, cfg := range ctx.FileConfigs {
			if cfg != nil && filepath.ToSlash(name) == slash {
				return cfg
			}
		}
	}
	return ctx.Config
}

// GetSourceMap returns or creates a SourceMap for the given file.
// Returns nil if the file is not in FileSources.
func (ctx *Context) GetSourceMap(file string) *sourcemap.SourceMap {
	if sm, ok := ctx.sourceMaps[file]; ok {
		return sm
	}
	source, ok := ctx.FileSources[file]
	if !ok {
		slash := filepath.ToSlash(file)
		for name, src := range ctx.FileSources {
			if filepath.ToSlash(name) == slash {
				source, ok = src, true
				break
			}
		}
		if !ok {
			return nil
		}
	}
	sm := sourcemap.New(source)
	ctx.sourceMaps[file] = sm
	return sm
}

// Func adapts a plain function to [Processor].
func Func(name string, fn func([]rules.Violation, *Context) []rules.Violation) Processor {
	return funcProcessor{name: name, fn: fn}
}

type funcProcessor struct {
	name string
	fn   func([]rules.Violation, *Context) []rules.Violation
}

func (f funcProcessor) Name() string { return f.name }

func (f funcProcessor) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return f.fn(violations, ctx)
}

// NormalizePaths rewrites backslash separators in violation file paths to forward slashes.
func NormalizePaths(violations []rules.Violation, _ *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		v.Location.File = strings.ReplaceAll(v.Location.File, "\\", "/")
		return v
	})
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Names returns the processor names in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.processors))
	for i, p := range c.processors {
		names[i] = p.Name()
	}
	return names
}

// Process runs all processors in sequence.
func (c *Chain) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	for _, p := range c.processors {
		violations = p.Process(violations, ctx)
	}
	return violations
}

// filterViolations is a helper for processors that filter violations.
// It returns a new slice containing only violations where keep() returns true.
func filterViolations(violations []rules.Violation, keep func(v rules.Violation) bool) []rules.Violation {
	result := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// transformViolations is a helper for processors that modify violations.
// It returns a new slice with each violation transformed by transform().
func transformViolations(
	violations []rules.Violation,
	transform func(v rules.Violation) rules.Violation,
) []rules.Violation {
	result := make([]rules.Violation, len(violations))
	for i, v := range violations {
		result[i] = transform(v)
	}
	return result
}
