// Package version reports build information for the qunitlint binary.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

// version is overridden at link time with -ldflags "-X ...version.version=v1.2.3".
var version = "dev"

const (
	treeSitterModule = "github.com/tree-sitter/go-tree-sitter"
	grammarModule    = "github.com/tree-sitter/tree-sitter-javascript"
)

// Version returns the version string with the linked parser suffix.
func Version() string {
	b := readBuildInfo()
	if b.treeSitter != "" {
		return version + " (tree-sitter " + b.treeSitter + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

type buildInfo struct {
	treeSitter string
	grammar    string
	commit     string
}

func readBuildInfo() buildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo{}
	}
	var b buildInfo
	b.treeSitter = depVersion(info, treeSitterModule)
	b.grammar = depVersion(info, grammarModule)
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		b.commit = info.Settings[idx].Value
		if len(b.commit) > 12 {
			b.commit = b.commit[:12]
		}
	}
	return b
}

func depVersion(info *debug.BuildInfo, path string) string {
	idx := slices.IndexFunc(info.Deps, func(dep *debug.Module) bool {
		return dep.Path == path
	})
	if idx < 0 {
		return ""
	}
	return info.Deps[idx].Version
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version           string   `json:"version"`
	TreeSitterVersion string   `json:"treeSitterVersion,omitempty"`
	GrammarVersion    string   `json:"grammarVersion,omitempty"`
	Platform          Platform `json:"platform"`
	GoVersion         string   `json:"goVersion"`
	GitCommit         string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information.
func GetInfo() Info {
	b := readBuildInfo()
	return Info{
		Version:           RawVersion(),
		TreeSitterVersion: b.treeSitter,
		GrammarVersion:    b.grammar,
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: b.commit,
	}
}
