package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/qunitlint/internal/config"
	"github.com/wharflab/qunitlint/internal/discovery"
	"github.com/wharflab/qunitlint/internal/fileval"
	"github.com/wharflab/qunitlint/internal/jsparse"
	"github.com/wharflab/qunitlint/internal/linter"
	"github.com/wharflab/qunitlint/internal/processor"
	"github.com/wharflab/qunitlint/internal/reporter"
	"github.com/wharflab/qunitlint/internal/rules"
	"github.com/wharflab/qunitlint/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // No violations (or below fail-level threshold)
	ExitViolations  = 1 // Violations found at or above fail-level
	ExitConfigError = 2 // Parse or config error
	ExitNoFiles     = 3 // No JavaScript files found (missing file, empty glob, empty directory)
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint QUnit test files for issues",
		ArgsUsage: "[FILE|DIR|GLOB...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: auto, text, json, sarif, github-actions, markdown",
				Sources: cli.EnvVars("QUNITLINT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "show-source",
				Usage: "Show source code snippets (default: true)",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets",
			},
			&cli.StringFlag{
				Name:  "fail-level",
				Usage: "Minimum severity to cause non-zero exit: error, warning, info, style, none",
			},
			&cli.BoolFlag{
				Name:  "no-inline-directives",
				Usage: "Disable processing of inline suppression directives",
			},
			&cli.BoolFlag{
				Name:  "warn-unused-directives",
				Usage: "Warn about unused suppression directives",
			},
			&cli.BoolFlag{
				Name:  "require-reason",
				Usage: `Warn about suppression directives without a "-- reason" suffix`,
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude files (can be repeated)",
				Sources: cli.EnvVars("QUNITLINT_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:  "no-ignore-file",
				Usage: "Do not read " + discovery.IgnoreFileName + " files",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Enable specific rules (pattern: rule-code, namespace/*, *)",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Disable specific rules (pattern: rule-code, namespace/*, *)",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files linted in parallel (0: one per CPU)",
				Sources: cli.EnvVars("QUNITLINT_JOBS"),
			},
			&cli.StringFlag{
				Name:  "new-from-patch",
				Usage: `Only report violations on lines added by this unified diff ("-" for stdin)`,
			},
		},
		Action: runLint,
	}
}

// lintResults holds the aggregated results of linting all discovered files.
type lintResults struct {
	violations   []rules.Violation
	fileSources  map[string][]byte
	fileConfigs  map[string]*config.Config
	fileComments map[string][]jsparse.Comment
	firstCfg     *config.Config
}

// runLint is the action handler for the lint command.
func runLint(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	// Discovery settings come from the config closest to the first input.
	rootCfg, err := loadConfigForFile(cmd, discoveryRoot(inputs[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	discoveryOpts := discovery.Options{
		Patterns:        rootCfg.Discovery.Patterns,
		ExcludePatterns: append(rootCfg.Discovery.Exclude, cmd.StringSlice("exclude")...),
		NoIgnoreFile:    cmd.Bool("no-ignore-file"),
	}

	discovered, err := discovery.Discover(inputs, discoveryOpts)
	if err != nil {
		var notFound *discovery.FileNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", notFound)
			return cli.Exit("", ExitNoFiles)
		}
		fmt.Fprintf(os.Stderr, "Error: failed to discover files: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if len(discovered) == 0 {
		reportNoFilesFound(inputs)
		return cli.Exit("", ExitNoFiles)
	}
	logrus.WithField("files", len(discovered)).Debug("discovered files")

	res, err := lintFiles(ctx, discovered, cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	patch, err := loadPatchFilter(cmd.String("new-from-patch"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	// Each file gets its own config for rule enable/disable, severity, etc.
	chain, inlineFilter := linter.CLIProcessors(patch)
	procCtx := processor.NewContext(res.fileConfigs, res.firstCfg, res.fileSources)
	procCtx.FileComments = res.fileComments
	allViolations := chain.Process(res.violations, procCtx)

	// Directive diagnostics bypass the filters that would otherwise hide them.
	additionalViolations := inlineFilter.AdditionalViolations()
	if len(additionalViolations) > 0 {
		additionalViolations = processor.NormalizePaths(additionalViolations, procCtx)
		if patch != nil {
			additionalViolations = patch.Process(additionalViolations, procCtx)
		}
		additionalViolations = processor.NewSnippetAttachment().Process(additionalViolations, procCtx)
		allViolations = append(allViolations, additionalViolations...)
		allViolations = reporter.SortViolations(allViolations)
	}

	return writeReport(cmd, res.firstCfg, allViolations, res.fileSources, len(discovered))
}

// lintFiles runs the lint pipeline on each discovered file and aggregates results.
func lintFiles(ctx context.Context, discovered []discovery.DiscoveredFile, cmd *cli.Command) (*lintResults, error) {
	res := &lintResults{
		fileSources:  make(map[string][]byte),
		fileConfigs:  make(map[string]*config.Config),
		fileComments: make(map[string][]jsparse.Comment),
	}

	inputs := make([]linter.Input, 0, len(discovered))
	for _, df := range discovered {
		file := df.Path

		cfg, err := loadConfigForFile(cmd, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config for %s: %w", file, err)
		}
		res.fileConfigs[file] = cfg
		if res.firstCfg == nil {
			res.firstCfg = cfg
		}

		if err := fileval.ValidateFile(file, cfg.FileValidation.MaxFileSize); err != nil {
			return nil, fmt.Errorf("failed to lint %s: %w", file, err)
		}

		inputs = append(inputs, linter.Input{FilePath: file, Config: cfg})
	}

	batch := &linter.Batch{Concurrency: cmd.Int("jobs")}
	results, err := batch.Run(ctx, inputs)
	if err != nil {
		return nil, err
	}

	for i, result := range results {
		file := inputs[i].FilePath
		res.fileSources[file] = result.Source
		res.fileComments[filepath.ToSlash(file)] = result.Comments
		res.violations = append(res.violations, result.Violations...)
	}

	return res, nil
}

// loadPatchFilter reads the unified diff named by path. An empty path
// disables the filter.
func loadPatchFilter(path string) (*processor.NewFromPatchFilter, error) {
	if path == "" {
		return nil, nil
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open patch: %w", err)
		}
		defer f.Close()
		r = f
	}

	patch, err := processor.NewNewFromPatchFilter(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch %s: %w", path, err)
	}
	return patch, nil
}

// writeReport formats and writes the violation report.
func writeReport(
	cmd *cli.Command, cfg *config.Config, violations []rules.Violation,
	fileSources map[string][]byte, filesScanned int,
) error {
	if cfg == nil {
		cfg = config.Default()
	}

	formatType, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	// Reject a bad fail-level before writing anything.
	if _, err := parseFailLevel(cfg.Output.FailLevel); err != nil && cfg.Output.FailLevel != "none" {
		fmt.Fprintf(os.Stderr, "Error: invalid --fail-level %q\n", cfg.Output.FailLevel)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(cfg.Output.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.DefaultOptions()
	opts.Format = formatType
	opts.Writer = writer
	opts.ShowSource = cfg.Output.ShowSource
	opts.ToolVersion = version.RawVersion()

	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	metadata := reporter.ReportMetadata{
		FilesScanned: filesScanned,
		RulesEnabled: len(linter.EnabledRuleCodes(cfg)),
	}

	if err := rep.Report(violations, fileSources, metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	exitCode := determineExitCode(violations, cfg.Output.FailLevel)
	if exitCode != ExitSuccess {
		return cli.Exit("", exitCode)
	}

	return nil
}

// loadConfigForFile loads configuration for a target file, applying CLI overrides.
func loadConfigForFile(cmd *cli.Command, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(targetPath, cmd.String("config"), cliOverrides(cmd))
	if err != nil {
		return nil, err
	}

	// Rule selection appends to the configured patterns rather than replacing them.
	if cmd.IsSet("select") {
		cfg.Rules.Include = append(cfg.Rules.Include, cmd.StringSlice("select")...)
	}
	if cmd.IsSet("ignore") {
		cfg.Rules.Exclude = append(cfg.Rules.Exclude, cmd.StringSlice("ignore")...)
	}

	return cfg, nil
}

// cliOverrides collects explicitly set flags in config-file shape.
func cliOverrides(cmd *cli.Command) map[string]any {
	output := make(map[string]any)
	if cmd.IsSet("format") {
		output["format"] = cmd.String("format")
	}
	if cmd.IsSet("output") {
		output["path"] = cmd.String("output")
	}
	if cmd.IsSet("show-source") {
		output["show-source"] = cmd.Bool("show-source")
	}
	if cmd.IsSet("hide-source") && cmd.Bool("hide-source") {
		output["show-source"] = false
	}
	if cmd.IsSet("fail-level") {
		output["fail-level"] = cmd.String("fail-level")
	}

	directives := make(map[string]any)
	// --no-inline-directives inverts the enabled setting
	if cmd.IsSet("no-inline-directives") {
		directives["enabled"] = !cmd.Bool("no-inline-directives")
	}
	if cmd.IsSet("warn-unused-directives") {
		directives["warn-unused"] = cmd.Bool("warn-unused-directives")
	}
	if cmd.IsSet("require-reason") {
		directives["require-reason"] = cmd.Bool("require-reason")
	}

	overrides := make(map[string]any)
	if len(output) > 0 {
		overrides["output"] = output
	}
	if len(directives) > 0 {
		overrides["inline-directives"] = directives
	}
	return overrides
}

// discoveryRoot returns the path config discovery should start from for
// an input. Globs fall back to the working directory.
func discoveryRoot(input string) string {
	if discovery.ContainsGlobChars(input) {
		return "."
	}
	return input
}

// determineExitCode returns the appropriate exit code based on violations and fail-level.
func determineExitCode(violations []rules.Violation, failLevel string) int {
	// "none" means never fail due to violations
	if failLevel == "none" {
		return ExitSuccess
	}

	threshold, err := parseFailLevel(failLevel)
	if err != nil {
		return ExitConfigError
	}

	for _, v := range violations {
		if v.Severity.IsAtLeast(threshold) {
			return ExitViolations
		}
	}

	return ExitSuccess
}

// parseFailLevel parses a fail-level string to a Severity.
func parseFailLevel(level string) (rules.Severity, error) {
	switch level {
	case "", "style":
		// Default to "style" (any violation fails)
		return rules.SeverityStyle, nil
	default:
		return rules.ParseSeverity(level)
	}
}

// reportNoFilesFound prints a context-aware message when no files are found.
func reportNoFilesFound(inputs []string) {
	for _, input := range inputs {
		if discovery.ContainsGlobChars(input) {
			fmt.Fprintf(os.Stderr, "Error: no JavaScript files matched pattern: %s\n", input)
			return
		}
	}

	// Resolve directories so the user knows exactly which one was scanned.
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: no JavaScript files found in %s\n", abs)
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Error: no JavaScript files found\n")
}
