package fileval

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// Verdict is the outcome of ScanText.
type Verdict int

const (
	// Text means every scanned byte formed valid UTF-8 without NUL bytes.
	Text Verdict = iota
	// Binary means a NUL byte was found.
	Binary
	// InvalidUTF8 means an invalid byte sequence was found.
	InvalidUTF8
)

const chunkSize = 32 * 1024

// ScanText reads up to maxBytes of path (0 means the whole file) and
// classifies it. A code point split across two reads is held back and
// validated together with the next chunk.
func ScanText(path string, maxBytes int64) (Verdict, error) {
	f, err := os.Open(path)
	if err != nil {
		return Text, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes)
	}
	return scan(r, maxBytes > 0)
}

// scan classifies r. When limited is set, r may end mid code point and an
// incomplete trailing sequence is not held against the input.
func scan(r io.Reader, limited bool) (Verdict, error) {
	buf := make([]byte, chunkSize+utf8.UTFMax)
	held := 0

	for {
		n, err := r.Read(buf[held : held+chunkSize])
		data := buf[:held+n]
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return Text, err
		}

		if bytes.IndexByte(data[held:], 0) >= 0 {
			return Binary, nil
		}

		keep := 0
		if !eof || limited {
			keep = incompleteSuffix(data)
		}
		if !utf8.Valid(data[:len(data)-keep]) {
			return InvalidUTF8, nil
		}
		if eof {
			return Text, nil
		}

		copy(buf, data[len(data)-keep:])
		held = keep
	}
}

// incompleteSuffix returns how many trailing bytes of data start a code
// point that is not yet complete.
func incompleteSuffix(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		b := data[len(data)-i]
		if utf8.RuneStart(b) {
			if b >= utf8.RuneSelf && !utf8.FullRune(data[len(data)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}
