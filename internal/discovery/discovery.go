// Package discovery finds JavaScript test files with glob pattern support.
package discovery

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
)

// IgnoreFileName is the per-directory ignore file honored when a directory
// is scanned. It uses .gitignore-style patterns.
const IgnoreFileName = ".qunitlintignore"

// DiscoveredFile represents a JavaScript file found during discovery.
type DiscoveredFile struct {
	// Path is the path to the file.
	// For explicit file inputs, this preserves the original path (relative or absolute).
	// For discovered files (from directories/globs), this is an absolute path.
	Path string

	// ConfigRoot is the directory to use for config file discovery.
	// This is the directory containing the file.
	ConfigRoot string
}

// Options configures file discovery behavior.
type Options struct {
	// Patterns are the glob patterns matched inside directories
	// (default: DefaultPatterns()). Supports doublestar patterns like "**/*.test.js".
	Patterns []string

	// ExcludePatterns are glob patterns to exclude from results.
	ExcludePatterns []string

	// NoIgnoreFile disables reading .qunitlintignore files.
	NoIgnoreFile bool
}

// FileNotFoundError is returned when an explicit file input does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// DefaultPatterns returns the default JavaScript file patterns.
func DefaultPatterns() []string {
	return []string{"*.js", "*.mjs", "*.cjs"}
}

// DefaultExcludePatterns returns the paths skipped unless overridden.
func DefaultExcludePatterns() []string {
	return []string{"**/node_modules/**"}
}

// Discover finds JavaScript files matching the given inputs.
// Each input can be:
// - A specific file path
// - A directory (searched recursively with the configured patterns)
// - A glob pattern (expanded with doublestar)
//
// Results are deduplicated by absolute path and sorted.
func Discover(inputs []string, opts Options) ([]DiscoveredFile, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}

	seen := make(map[string]bool)
	var results []DiscoveredFile

	for _, input := range inputs {
		discovered, err := discoverInput(input, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, discovered...)
	}

	slices.SortFunc(results, func(a, b DiscoveredFile) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return results, nil
}

func discoverInput(input string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	// Glob characters make os.Stat fail on Windows, so route them first.
	if ContainsGlobChars(input) {
		return globMatches(input, opts, seen, nil)
	}

	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: input}
		}
		return nil, err
	}
	if info.IsDir() {
		return discoverDirectory(input, opts, seen)
	}
	return discoverFile(input, opts, seen)
}

// ContainsGlobChars reports whether path contains glob metacharacters.
func ContainsGlobChars(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}

// discoverFile keeps the user's spelling of an explicit path for display.
func discoverFile(path string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
		return nil, nil
	}
	seen[absPath] = true

	return []DiscoveredFile{{
		Path:       path,
		ConfigRoot: filepath.Dir(absPath),
	}}, nil
}

func discoverDirectory(dir string, opts Options, seen map[string]bool) ([]DiscoveredFile, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var ignore *ignoreMatcher
	if !opts.NoIgnoreFile {
		ignore, err = loadIgnoreMatcher(absDir)
		if err != nil {
			return nil, err
		}
	}

	var results []DiscoveredFile
	for _, pattern := range opts.Patterns {
		for _, p := range []string{
			filepath.Join(absDir, "**", pattern),
			filepath.Join(absDir, pattern),
		} {
			discovered, err := globMatches(p, opts, seen, ignore)
			if err != nil {
				return nil, err
			}
			results = append(results, discovered...)
		}
	}

	return results, nil
}

func globMatches(pattern string, opts Options, seen map[string]bool, ignore *ignoreMatcher) ([]DiscoveredFile, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	var results []DiscoveredFile
	for _, match := range matches {
		absPath, err := filepath.Abs(match)
		if err != nil {
			return nil, err
		}

		if isExcluded(absPath, opts.ExcludePatterns) || seen[absPath] {
			continue
		}
		ignored, err := ignore.matches(absPath)
		if err != nil {
			return nil, err
		}
		if ignored {
			continue
		}
		seen[absPath] = true

		results = append(results, DiscoveredFile{
			Path:       absPath,
			ConfigRoot: filepath.Dir(absPath),
		})
	}

	return results, nil
}

// ignoreMatcher applies a directory's .qunitlintignore to files below it.
type ignoreMatcher struct {
	root string
	pm   *patternmatcher.PatternMatcher
}

// loadIgnoreMatcher returns nil when dir has no ignore file or it is empty.
func loadIgnoreMatcher(dir string) (*ignoreMatcher, error) {
	f, err := os.Open(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern in %s: %w", f.Name(), err)
	}
	return &ignoreMatcher{root: dir, pm: pm}, nil
}

func (m *ignoreMatcher) matches(absPath string) (bool, error) {
	if m == nil {
		return false, nil
	}
	rel, err := filepath.Rel(m.root, absPath)
	if err != nil {
		return false, nil //nolint:nilerr // paths outside the root are never ignored
	}
	return m.pm.MatchesOrParentMatches(filepath.ToSlash(rel))
}

// isExcluded checks if a path matches any exclusion pattern:
//
//  1. against the full absolute path (for absolute patterns)
//  2. against the base name (for simple patterns like "*.min.js")
//  3. against each suffix subpath, so "vendor/*" matches direct children of
//     any "vendor" directory
//
// doublestar.Match expects forward slashes, so paths are normalized first.
func isExcluded(absPath string, excludePatterns []string) bool {
	absPathSlash := filepath.ToSlash(absPath)
	base := filepath.Base(absPath)
	parts := splitPath(absPath)

	for _, pattern := range excludePatterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.Match(pattern, absPathSlash); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
		for i := range parts {
			subpath := filepath.ToSlash(filepath.Join(parts[i:]...))
			if matched, err := doublestar.Match(pattern, subpath); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// splitPath splits a path into its components.
// "/home/user/vendor/a.js" returns ["home", "user", "vendor", "a.js"].
// On Windows the drive letter is stripped.
func splitPath(path string) []string {
	var parts []string
	for path != "" {
		dir, file := filepath.Split(path)
		if file != "" {
			parts = append([]string{file}, parts...)
		}
		path = filepath.Clean(dir)

		if path == "/" || path == "." {
			break
		}

		vol := filepath.VolumeName(path)
		if vol != "" && (path == vol || path == vol+string(filepath.Separator)) {
			break
		}
	}
	return parts
}
