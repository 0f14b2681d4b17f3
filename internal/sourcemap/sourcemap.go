// Package sourcemap indexes JavaScript source by line for snippet
// extraction and offset lookups.
package sourcemap

import (
	"bytes"
	"strings"
)

// SourceMap provides access to source code by line.
//
// All line numbers are 0-based. Callers holding 1-based violation lines
// subtract one.
type SourceMap struct {
	// lines are the individual lines without line endings.
	lines []string

	// lineOffsets[i] is the byte offset where line i starts.
	lineOffsets []int
}

// New creates a SourceMap from source content. Both \n and \r\n endings
// are handled.
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// LineOffset returns the byte offset where a 0-based line starts, or -1.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// Snippet joins the 0-based inclusive line range [startLine, endLine].
// The range is clamped; an empty range yields "".
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	startLine = max(startLine, 0)
	endLine = min(endLine, len(sm.lines)-1)
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}
