// Package version reports build information for the analytic CLI and library.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string   `json:"version"`
	BuildDate string   `json:"build_date"`
	GitCommit string   `json:"git_commit"`
	GoVersion string   `json:"go_version"`
	Dirty     bool     `json:"dirty"`
	Module    string   `json:"module,omitempty"`
	Deps      []Module `json:"deps,omitempty"`
}

// Module is a dependency compiled into the binary
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Info returns the build information of the running binary
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.Module = buildInfo.Main.Path
		for _, dep := range buildInfo.Deps {
			info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
		}
	}

	return info
}

// String returns a formatted version string
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("analytic window engine\n")
	sb.WriteString(fmt.Sprintf("Version: %s", b.Version))
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		sb.WriteString(fmt.Sprintf("Build Date: %s\n", b.BuildDate))
	}

	if b.GitCommit != unknownValue {
		commit := b.GitCommit
		if len(commit) > commitHashLength {
			commit = commit[:commitHashLength]
		}
		sb.WriteString(fmt.Sprintf("Git Commit: %s\n", commit))
	}

	sb.WriteString(fmt.Sprintf("Go Version: %s\n", b.GoVersion))

	if b.Module != "" {
		sb.WriteString(fmt.Sprintf("Module: %s\n", b.Module))
	}

	return sb.String()
}

// JSON renders the build information as indented JSON
func (b BuildInfo) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding build info: %w", err)
	}
	return out, nil
}

// IsRelease returns true if this is a release version (not dev)
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}

// IsPreRelease returns true if this is a pre-release version
func IsPreRelease() bool {
	return strings.Contains(Version, "-alpha") ||
		strings.Contains(Version, "-beta") ||
		strings.Contains(Version, "-rc")
}
