package reporter

// The text formatter prints a rule header, the location, and a numbered
// source excerpt, styled with Lip Gloss and highlighted with Chroma's
// JavaScript lexer.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/wharflab/qunitlint/internal/rules"
)

var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")) // Orange/Yellow

	ruleCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Blue
			Underline(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // Darker gray

	// Marker for the lines the violation covers
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	summaryStyle = lipgloss.NewStyle().Bold(true)

	severityStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		rules.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		rules.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
		rules.SeverityStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")), // Gray
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables JavaScript syntax highlighting in snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           nil, // auto-detect
		SyntaxHighlight: true,
		ShowSource:      true,
		ChromaStyle:     "", // auto-detect
	}
}

// TextReporter formats violations as styled text output.
type TextReporter struct {
	opts      TextOptions
	color     bool
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts, color: useColors}
	if opts.Color != nil {
		r.color = *opts.Color
	}

	if r.color && opts.SyntaxHighlight {
		r.lexer = lexers.Get("javascript")
		if r.lexer == nil {
			r.lexer = lexers.Fallback
		}
		r.lexer = chroma.Coalesce(r.lexer)

		styleName := opts.ChromaStyle
		if styleName == "" {
			if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

// render applies style when colors are enabled.
func (r *TextReporter) render(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Print writes violations to the writer.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	for _, v := range SortViolations(violations) {
		if err := r.printViolation(w, v, sources[v.Location.File]); err != nil {
			return err
		}
	}
	return nil
}

// printViolation formats a single violation.
func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte) error {
	sevStyle, ok := severityStyles[v.Severity]
	if !ok {
		sevStyle = warningStyle
	}

	// Header line: SEVERITY: rule/code - URL
	header := fmt.Sprintf("\n%s %s",
		r.render(sevStyle, strings.ToUpper(v.Severity.String())+":"),
		r.render(ruleCodeStyle, v.RuleCode))
	if v.DocURL != "" {
		header += " - " + r.render(urlStyle, v.DocURL)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, r.render(messageStyle, v.Message)); err != nil {
		return err
	}
	if v.Detail != "" {
		if _, err := fmt.Fprintln(w, v.Detail); err != nil {
			return err
		}
	}

	if v.Location.IsFileLevel() {
		_, err := fmt.Fprintln(w, r.render(fileLocStyle, v.Location.File))
		return err
	}
	if r.opts.ShowSource && len(source) > 0 {
		r.printSource(w, v.Location, source)
		return nil
	}
	_, err := fmt.Fprintln(w, r.render(fileLocStyle,
		fmt.Sprintf("%s:%d:%d", v.Location.File, v.Location.Start.Line, v.Location.Start.Column+1)))
	return err
}

// printSource renders the source code snippet with optional syntax highlighting.
func (r *TextReporter) printSource(w io.Writer, loc rules.Location, source []byte) {
	lines := strings.Split(string(source), "\n")

	start := loc.Start.Line
	end := loc.EndLine()
	if end < start {
		end = start
	}

	if start > len(lines) || start < 1 {
		return
	}
	end = min(end, len(lines))

	// 2-4 lines of context
	pad := 2
	if end == start {
		pad = 4
	}

	affectedStart, affectedEnd := start, end
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	separator := "--------------------"
	if r.color {
		separator = separatorStyle.Render("────────────────────")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, r.render(fileLocStyle, fmt.Sprintf("%s:%d:%d", loc.File, affectedStart, loc.Start.Column+1)))
	fmt.Fprintln(w, separator)

	for i := start; i <= end; i++ {
		lineContent := strings.TrimSuffix(lines[i-1], "\r")

		lineNum := fmt.Sprintf(" %3d |", i)
		if r.color {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		}

		marker := "   "
		if i >= affectedStart && i <= affectedEnd {
			marker = r.render(markerStyle, ">>>")
		}

		content := lineContent
		if r.lexer != nil && r.style != nil && r.formatter != nil {
			content = r.highlightLine(lineContent)
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, content)
	}

	fmt.Fprintln(w, separator)
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(line string) string {
	iterator, err := r.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return line
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintSummary writes the closing problem count. Nothing is written when
// there are no violations.
func (r *TextReporter) PrintSummary(w io.Writer, violations []rules.Violation, meta ReportMetadata) error {
	if len(violations) == 0 {
		return nil
	}

	s := calculateSummary(violations, countFiles(violations))
	parts := []string{
		fmt.Sprintf("%d %s", s.Errors, pluralize(s.Errors, "error", "errors")),
		fmt.Sprintf("%d %s", s.Warnings, pluralize(s.Warnings, "warning", "warnings")),
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Style > 0 {
		parts = append(parts, fmt.Sprintf("%d style", s.Style))
	}

	line := fmt.Sprintf("%d %s (%s) in %d %s",
		s.Total, pluralize(s.Total, "problem", "problems"),
		strings.Join(parts, ", "),
		s.Files, pluralize(s.Files, "file", "files"))
	if meta.FilesScanned > 0 {
		line += fmt.Sprintf(", %d scanned", meta.FilesScanned)
	}

	_, err := fmt.Fprintf(w, "\n%s\n", r.render(summaryStyle, line))
	return err
}

func countFiles(violations []rules.Violation) int {
	files := make(map[string]struct{})
	for _, v := range violations {
		files[v.Location.File] = struct{}{}
	}
	return len(files)
}
