package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("QUnit.test('a', function () {});\n"), 0o644))
	}
	return dir
}

func relPaths(t *testing.T, root string, files []DiscoveredFile) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDefaultPatterns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"*.js", "*.mjs", "*.cjs"}, DefaultPatterns())
	assert.Equal(t, []string{"**/node_modules/**"}, DefaultExcludePatterns())
}

func TestDiscoverFile(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "test.js")
	path := filepath.Join(dir, "test.js")

	results, err := Discover([]string{path}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, path, results[0].Path)
	assert.Equal(t, dir, results[0].ConfigRoot)
}

func TestDiscoverFile_AnyExtension(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "suite.qunit")
	results, err := Discover([]string{filepath.Join(dir, "suite.qunit")}, Options{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDiscoverDirectory(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"a.js",
		"b.mjs",
		"c.cjs",
		"sub/d.js",
		"sub/nested/e.js",
		"readme.md",
		"data.json",
	)

	results, err := Discover([]string{dir}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.mjs", "c.cjs", "sub/d.js", "sub/nested/e.js"}, relPaths(t, dir, results))
}

func TestDiscoverDirectory_CustomPatterns(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "app.js", "app.test.js", "sub/other.test.js")

	results, err := Discover([]string{dir}, Options{Patterns: []string{"*.test.js"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.test.js", "sub/other.test.js"}, relPaths(t, dir, results))
}

func TestDiscoverGlob(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "tests/a.js", "tests/b.js", "src/c.js")

	results, err := Discover([]string{filepath.Join(dir, "tests", "*.js")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/a.js", "tests/b.js"}, relPaths(t, dir, results))
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"a.js",
		"vendor/lib.js",
		"node_modules/qunit/qunit.js",
		"sub/node_modules/x/index.js",
		"dist/app.min.js",
	)

	results, err := Discover([]string{dir}, Options{
		ExcludePatterns: append(DefaultExcludePatterns(), "vendor/*", "*.min.js"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, relPaths(t, dir, results))
}

func TestDiscoverIgnoreFile(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "a.js", "fixtures/b.js", "fixtures/keep.js", "gen/c.js")
	ignore := "# generated\nfixtures\n!fixtures/keep.js\ngen/**\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte(ignore), 0o644))

	results, err := Discover([]string{dir}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "fixtures/keep.js"}, relPaths(t, dir, results))

	results, err = Discover([]string{dir}, Options{NoIgnoreFile: true})
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestDiscoverDeduplication(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "a.js")

	results, err := Discover([]string{
		dir,
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "*.js"),
	}, Options{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDiscoverNonexistent(t *testing.T) {
	t.Parallel()

	results, err := Discover([]string{"nonexistent-pattern-*.xyz"}, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDiscoverMissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.js")
	_, err := Discover([]string{missing}, Options{})

	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, missing, notFound.Path)
	assert.Equal(t, "file not found: "+missing, err.Error())
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"home", "user", "vendor", "a.js"}, splitPath("/home/user/vendor/a.js"))
}
