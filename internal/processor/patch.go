package processor

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/wharflab/qunitlint/internal/rules"
)

// NewFromPatchFilter keeps only violations reported on lines a unified diff
// adds. It lets a legacy suite adopt the linter by checking only new code.
type NewFromPatchFilter struct {
	// added maps slash-separated new file names to their added 1-based lines.
	added map[string]map[int]bool
	// created holds files the patch creates; their file-level violations are kept.
	created map[string]bool
}

// NewNewFromPatchFilter parses a unified diff (git or traditional format).
func NewNewFromPatchFilter(r io.Reader) (*NewFromPatchFilter, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}

	p := &NewFromPatchFilter{
		added:   make(map[string]map[int]bool),
		created: make(map[string]bool),
	}
	for _, f := range files {
		if f.IsDelete || f.IsBinary || f.NewName == "" {
			continue
		}
		name := cleanPatchPath(f.NewName)
		lines := p.added[name]
		if lines == nil {
			lines = make(map[int]bool)
			p.added[name] = lines
		}
		if f.IsNew {
			p.created[name] = true
		}
		for _, frag := range f.TextFragments {
			line := int(frag.NewPosition)
			for _, l := range frag.Lines {
				switch l.Op {
				case gitdiff.OpAdd:
					lines[line] = true
					line++
				case gitdiff.OpContext:
					line++
				case gitdiff.OpDelete:
				}
			}
		}
	}
	return p, nil
}

// Name returns the processor's identifier.
func (p *NewFromPatchFilter) Name() string {
	return "new-from-patch"
}

// Process drops violations outside the added lines.
func (p *NewFromPatchFilter) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return filterViolations(violations, func(v rules.Violation) bool {
		name, ok := p.lookup(v.Location.File)
		if !ok {
			return false
		}
		if v.Location.IsFileLevel() {
			return p.created[name]
		}
		return p.added[name][v.Location.Start.Line]
	})
}

// lookup finds the patch entry for a violation path. Patch paths are
// repository-relative while violation paths may carry a leading directory,
// so a match on a whole trailing path segment is accepted.
func (p *NewFromPatchFilter) lookup(file string) (string, bool) {
	file = path.Clean(filepath.ToSlash(file))
	if _, ok := p.added[file]; ok {
		return file, true
	}
	for name := range p.added {
		if strings.HasSuffix(file, "/"+name) {
			return name, true
		}
	}
	return "", false
}

// cleanPatchPath strips the a/ and b/ prefixes traditional diffs keep.
func cleanPatchPath(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	for _, prefix := range []string{"a/", "b/"} {
		if trimmed, ok := strings.CutPrefix(name, prefix); ok {
			return trimmed
		}
	}
	return strings.TrimPrefix(name, "./")
}
