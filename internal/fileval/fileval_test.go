package fileval

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestValidateFile_SizeCheck(t *testing.T) {
	t.Parallel()

	f := writeFile(t, "big.js", bytes.Repeat([]byte("a"), 200))

	err := ValidateFile(f, 100)
	var tooLarge *FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(200), tooLarge.Size)
	assert.Equal(t, int64(100), tooLarge.MaxSize)
	assert.Contains(t, err.Error(), "max-file-size")

	require.NoError(t, ValidateFile(f, 200))
	require.NoError(t, ValidateFile(f, 0))
}

func TestValidateFile_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		binary  bool
		wantErr bool
	}{
		{"empty", nil, false, false},
		{"script", []byte("QUnit.test('é', function () {});\n"), false, false},
		{"shebang", []byte("#!/usr/bin/env node\nrequire('qunit');\n"), false, false},
		{"nul byte", []byte("abc\x00def"), true, true},
		{"latin1", []byte("// caf\xe9\n"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFile(writeFile(t, "test.js", tt.content), 0)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var notText *NotTextError
			require.ErrorAs(t, err, &notText)
			assert.Equal(t, tt.binary, notText.Binary)
		})
	}
}

func TestValidateFile_Errors(t *testing.T) {
	t.Parallel()

	err := ValidateFile(filepath.Join(t.TempDir(), "nope.js"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = ValidateFile(t.TempDir(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestScanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    Verdict
	}{
		{"empty", nil, Text},
		{"ascii", []byte("QUnit.module('a');\n"), Text},
		{"multibyte", []byte("// Ünïcödé\n"), Text},
		{"emoji", []byte("// 🧪 tests\n"), Text},
		{"invalid continuation", []byte{0x80, 0x81, 0x82}, InvalidUTF8},
		{"truncated", []byte{'a', 0xC3}, InvalidUTF8},
		{"valid then invalid", append([]byte("QUnit.start();\n"), 0xFF, 0xFE), InvalidUTF8},
		{"nul", []byte{'a', 0, 'b'}, Binary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ScanText(writeFile(t, "a.js", tt.content), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanText_ChunkBoundary(t *testing.T) {
	t.Parallel()

	// € straddles the first read.
	data := []byte(strings.Repeat("A", chunkSize-1) + "€" + "\nQUnit.start();\n")
	got, err := ScanText(writeFile(t, "boundary.js", data), 0)
	require.NoError(t, err)
	assert.Equal(t, Text, got)
}

func TestScanText_LimitSplitsRune(t *testing.T) {
	t.Parallel()

	f := writeFile(t, "limit.js", []byte("ab€"))
	got, err := ScanText(f, 3)
	require.NoError(t, err)
	assert.Equal(t, Text, got)
}

func TestIncompleteSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"empty", nil, 0},
		{"ascii", []byte("abc"), 0},
		{"complete 2-byte", []byte{0xC3, 0xA9}, 0},
		{"incomplete 2-byte", []byte{0xC3}, 1},
		{"complete 3-byte", []byte{0xE2, 0x82, 0xAC}, 0},
		{"incomplete 3-byte", []byte{'a', 0xE2, 0x82}, 2},
		{"incomplete 4-byte", []byte{0xF0, 0x9F, 0xA7}, 3},
		{"invalid lead", []byte{'a', 0xFF}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, incompleteSuffix(tt.data))
		})
	}
}
