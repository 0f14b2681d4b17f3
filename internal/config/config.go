// Package config provides configuration loading and discovery for qunitlint.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (QUNITLINT_* prefix)
//  3. Config file (closest .qunitlint.toml or qunitlint.toml)
//  4. Built-in defaults
//
// Config file discovery starts from the target file's directory and walks up
// the filesystem until a config file is found. The closest config wins (no
// merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".qunitlint.toml", "qunitlint.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "QUNITLINT_"

// Config represents the complete qunitlint configuration.
type Config struct {
	// Rules contains configuration for individual linting rules.
	Rules RulesConfig `json:"rules" koanf:"rules"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// InlineDirectives controls inline suppression directives.
	InlineDirectives InlineDirectivesConfig `json:"inline-directives" koanf:"inline-directives"`

	// Discovery controls which files are linted when a directory is given.
	Discovery DiscoveryConfig `json:"discovery" koanf:"discovery"`

	// FileValidation configures pre-parse file validation checks.
	FileValidation FileValidationConfig `json:"file-validation" koanf:"file-validation"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// FileValidationConfig configures pre-parse file validation checks.
//
// Example TOML configuration:
//
//	[file-validation]
//	max-file-size = 1048576
type FileValidationConfig struct {
	// MaxFileSize is the maximum file size in bytes (0 = unlimited).
	MaxFileSize int64 `json:"max-file-size,omitempty" koanf:"max-file-size"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `json:"show-source,omitempty" koanf:"show-source"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level"`
}

// InlineDirectivesConfig controls inline suppression directives.
// Supports // qunitlint-disable-next-line and // eslint-disable-next-line
// comments plus their file-wide /* ... */ block forms.
//
// Example TOML configuration:
//
//	[inline-directives]
//	enabled = true
//	warn-unused = false
//	validate-rules = true
//	require-reason = false
type InlineDirectivesConfig struct {
	// Enabled controls whether inline directives are processed.
	Enabled bool `json:"enabled,omitempty" koanf:"enabled"`

	// WarnUnused reports warnings for directives that don't suppress any violations.
	WarnUnused bool `json:"warn-unused,omitempty" koanf:"warn-unused"`

	// ValidateRules reports warnings for unknown rule codes in directives.
	ValidateRules bool `json:"validate-rules,omitempty" koanf:"validate-rules"`

	// RequireReason reports warnings for directives without a "-- reason" suffix.
	RequireReason bool `json:"require-reason,omitempty" koanf:"require-reason"`
}

// DiscoveryConfig controls file discovery for directory arguments.
//
// Example TOML configuration:
//
//	[discovery]
//	patterns = ["*.test.js"]
//	exclude = ["vendor/**"]
type DiscoveryConfig struct {
	// Patterns are glob patterns matched against file base names.
	Patterns []string `json:"patterns,omitempty" koanf:"patterns"`

	// Exclude are doublestar patterns for paths to skip.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`
}

// Default returns the default configuration.
// Rule-specific defaults are owned by each rule via ConfigurableRule.DefaultConfig().
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "style", // Any violation causes exit code 1
		},
		Rules: RulesConfig{}, // Empty - defaults come from rules
		InlineDirectives: InlineDirectivesConfig{
			Enabled:       true,
			WarnUnused:    false,
			ValidateRules: true,
			RequireReason: false,
		},
		Discovery: DiscoveryConfig{
			Patterns: []string{"*.js", "*.mjs", "*.cjs"},
			Exclude:  []string{"**/node_modules/**"},
		},
		FileValidation: FileValidationConfig{
			MaxFileSize: 1024 * 1024, // 1 MB
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath), nil)
}

func loadWithConfigPath(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (QUNITLINT_* prefix)
	// QUNITLINT_RULES_QUNIT_RESOLVE_ASYNC_SEVERITY -> rules.qunit.resolve-async.severity
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	// 4. CLI flag overrides
	if err := loadOverrides(k, overrides); err != nil {
		return nil, err
	}

	// 5. Validate merged raw config and decode.
	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
// Add new entries here when adding rules or options with hyphenated names.
var knownHyphenatedKeys = map[string]string{
	"no.reset":          "no-reset",
	"no.throws.string":  "no-throws-string",
	"resolve.async":     "resolve-async",
	"unused.directive":  "unused-directive",
	"missing.directive": "missing-directive",
	"directive.reason":  "directive-reason",
	"invalid.directive": "invalid-directive",
	"inline.directives": "inline-directives",
	"warn.unused":       "warn-unused",
	"validate.rules":    "validate-rules",
	"require.reason":    "require-reason",
	"show.source":       "show-source",
	"fail.level":        "fail-level",
	"file.validation":   "file-validation",
	"max.file.size":     "max-file-size",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"rules":             {},
	"output":            {},
	"inline-directives": {},
	"discovery":         {},
	"file-validation":   {},
	// Compatibility aliases normalized in normalizeOutputAliases.
	"format":      {},
	"path":        {},
	"show-source": {},
	"fail-level":  {},
}

// envKeyTransform converts environment variable names to config keys.
// QUNITLINT_FORMAT -> format
// QUNITLINT_RULES_QUNIT_NO_RESET_SEVERITY -> rules.qunit.no-reset.severity
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
