// Package fileval provides pre-parse file validation checks for qunitlint.
//
// These checks run before tree-sitter parsing to fail fast on files that
// clearly aren't JavaScript sources: oversized bundles and binary data.
package fileval

import (
	"fmt"
	"os"
)

// defaultReadLimit bounds the text scan when no maximum size is configured.
const defaultReadLimit = 1 << 20

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); increase [file-validation] max-file-size in .qunitlint.toml to override",
		e.Size, e.MaxSize,
	)
}

// NotTextError is returned when a file does not look like UTF-8 source text.
type NotTextError struct {
	Path string
	// Binary is set when a NUL byte was found rather than an invalid sequence.
	Binary bool
}

func (e *NotTextError) Error() string {
	if e.Binary {
		return "file appears to be binary (contains NUL bytes)"
	}
	return "file does not appear to be valid UTF-8 text"
}

// ValidateFile runs the pre-parse checks on path. maxSize <= 0 disables the
// size limit.
func ValidateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	limit := maxSize
	if limit <= 0 {
		limit = defaultReadLimit
	}
	verdict, err := ScanText(path, limit)
	if err != nil {
		return err
	}
	switch verdict {
	case Binary:
		return &NotTextError{Path: path, Binary: true}
	case InvalidUTF8:
		return &NotTextError{Path: path}
	}
	return nil
}
