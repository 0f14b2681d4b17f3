// Package linter provides the lint pipeline shared by the CLI commands.
//
// The pipeline: config discovery → parse → rule execution → violation collection.
// Callers use [LintFile] to run the pipeline and then apply their own processor chain
// (via [CLIProcessors]) to filter and transform the results.
package linter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/jsparse"
	"github.com/wharflab/qunitlint/internal/rules"
	_ "github.com/wharflab/qunitlint/internal/rules/all" // Register all rules.
)

// Input configures a single invocation of [LintFile].
type Input struct {
	// FilePath is used for config discovery and violation locations.
	FilePath string

	// Content is the file content to lint. If nil, LintFile reads from FilePath.
	Content []byte

	// Config is the resolved configuration. If nil, LintFile loads from FilePath.
	Config *config.Config

	// Registry overrides the rules to run. Nil means the default registry.
	Registry *rules.Registry
}

// Result contains the output of [LintFile].
type Result struct {
	// Violations are raw violations before processor filtering.
	Violations []rules.Violation

	// Source is the linted content.
	Source []byte

	// Comments are the file's comments, for the inline directive filter.
	Comments []jsparse.Comment

	// SyntaxErrors counts the recovery nodes tree-sitter inserted.
	SyntaxErrors int

	// Config is the resolved config (loaded or passed in via Input).
	Config *config.Config
}

// LintFile runs the full lint pipeline for one file.
// It returns raw violations before processor filtering.
func LintFile(ctx context.Context, input Input) (*Result, error) {
	log := logrus.WithField("file", input.FilePath)

	content := input.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(input.FilePath)
		if err != nil {
			return nil, err
		}
	}

	cfg := input.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(input.FilePath)
		if err != nil {
			log.WithError(err).Warn("config load failed, using defaults")
			cfg = config.Default()
		}
	}

	registry := input.Registry
	if registry == nil {
		registry = rules.DefaultRegistry()
	}

	start := time.Now()
	parsed, err := jsparse.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	log.WithFields(logrus.Fields{
		"duration":      time.Since(start),
		"syntax_errors": parsed.SyntaxErrors,
		"comments":      len(parsed.Comments),
	}).Debug("parsed")
	if parsed.SyntaxErrors > 0 {
		log.WithField("syntax_errors", parsed.SyntaxErrors).
			Debug("source has syntax errors; linting the recovered tree")
	}

	baseInput := rules.LintInput{
		File:   input.FilePath,
		AST:    parsed.Program,
		Source: content,
	}

	var violations []rules.Violation
	for _, rule := range registry.All() {
		meta := rule.Metadata()
		if !isRuleEnabled(meta.Code, meta.DefaultSeverity, cfg) {
			log.WithField("rule", meta.Code).Trace("rule disabled")
			continue
		}

		ruleInput := baseInput
		if opts := cfg.Rules.GetOptions(meta.Code); opts != nil {
			ruleInput.Config = opts
		}
		found := rule.Check(ruleInput)
		log.WithFields(logrus.Fields{
			"rule":       meta.Code,
			"violations": len(found),
		}).Debug("rule checked")
		violations = append(violations, found...)
	}

	return &Result{
		Violations:   violations,
		Source:       content,
		Comments:     parsed.Comments,
		SyntaxErrors: parsed.SyntaxErrors,
		Config:       cfg,
	}, nil
}
