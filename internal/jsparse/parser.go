// Package jsparse parses JavaScript source with tree-sitter and converts the
// concrete syntax tree into the ESTree-shaped jsast representation.
package jsparse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/wharflab/qunitlint/internal/jsast"
)

// ErrLanguage is returned when the JavaScript grammar cannot be loaded into
// the tree-sitter runtime.
var ErrLanguage = errors.New("javascript grammar is incompatible with the tree-sitter runtime")

// ErrInvalidUTF8 is returned for sources that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("source is not valid UTF-8")

// Comment is a line or block comment found in the source.
type Comment struct {
	// Text is the full comment text including the // or /* */ markers.
	Text  string
	Block bool
	Range jsast.Range
}

// Result is a parsed JavaScript file.
type Result struct {
	// Program is the root of the converted tree. Parents are linked.
	Program *jsast.Node

	// Comments lists every comment in source order.
	Comments []Comment

	// SyntaxErrors counts ERROR and MISSING nodes tree-sitter inserted while
	// recovering. The tree is still usable when this is non-zero.
	SyntaxErrors int
}

var (
	langOnce sync.Once
	lang     *sitter.Language
)

func language() *sitter.Language {
	langOnce.Do(func() {
		lang = sitter.NewLanguage(javascript.Language())
	})
	return lang
}

// Parse parses source as JavaScript. A fresh tree-sitter parser is used per
// call, so Parse is safe for concurrent use.
func Parse(ctx context.Context, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidUTF8
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLanguage, err)
	}

	// ParseCtx stores into the cancellation flag when ctx is done, so one
	// must be installed first.
	var cancelFlag uintptr
	parser.SetCancellationFlag(&cancelFlag)

	tree := parser.ParseCtx(ctx, source, nil)
	if err := ctx.Err(); err != nil {
		if tree != nil {
			tree.Close()
		}
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}
	if tree == nil {
		return nil, errors.New("tree-sitter returned no tree")
	}
	defer tree.Close()

	c := &converter{src: source}
	root := tree.RootNode()
	c.scan(root)

	program := c.convert(root)
	program.Type = jsast.Program
	jsast.Link(program)

	return &Result{
		Program:      program,
		Comments:     c.comments,
		SyntaxErrors: c.errors,
	}, nil
}
