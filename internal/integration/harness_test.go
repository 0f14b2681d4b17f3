package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/qunitlint/internal/reporter"
)

type lintCase struct {
	name     string
	dir      string // fixture directory under testdata
	file     string // optional file inside dir; empty lints the directory
	args     []string
	wantExit int
	// want lists "file:line rule" entries in report order (JSON cases only).
	want []string
	// afterCheck inspects raw stdout and stderr.
	afterCheck func(t *testing.T, stdout, stderr string)
}

// runQUnitlint runs the binary and returns stdout, stderr and the exit code.
func runQUnitlint(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"GOCOVERDIR="+coverageDir,
	)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	err := cmd.Run()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("command failed to start: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	// Normalize line endings (Windows CRLF -> LF).
	stdout := strings.ReplaceAll(stdoutBuf.String(), "\r\n", "\n")
	return stdout, stderrBuf.String(), exitCode
}

func runLintCase(t *testing.T, tc lintCase) {
	t.Helper()

	target := filepath.Join("testdata", tc.dir)
	if tc.file != "" {
		target = filepath.Join(target, tc.file)
	}

	args := append([]string{"lint"}, tc.args...)
	args = append(args, target)
	stdout, stderr, exitCode := runQUnitlint(t, args...)

	if exitCode != tc.wantExit {
		t.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s", tc.wantExit, exitCode, stdout, stderr)
	}

	if tc.want != nil {
		assert.Equal(t, tc.want, reportEntries(t, stdout, filepath.Join("testdata", tc.dir)))
	}

	if tc.afterCheck != nil {
		tc.afterCheck(t, stdout, stderr)
	}
}

// reportEntries flattens a JSON report into "file:line rule" strings with
// paths relative to root.
func reportEntries(t *testing.T, stdout, root string) []string {
	t.Helper()

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), "stdout: %s", stdout)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	prefix := filepath.ToSlash(absRoot) + "/"
	relPrefix := filepath.ToSlash(root) + "/"

	entries := []string{}
	for _, f := range out.Files {
		name := strings.TrimPrefix(strings.TrimPrefix(f.File, prefix), relPrefix)
		for _, v := range f.Violations {
			entries = append(entries, fmt.Sprintf("%s:%d %s", name, v.Location.Start.Line, v.RuleCode))
		}
	}
	return entries
}
