package version

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	assert.Contains(t, info.String(), "analytic window engine")
	assert.Contains(t, info.String(), "Version:")
	assert.Contains(t, info.String(), "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		BuildDate: "2024-01-01T00:00:00Z",
		GitCommit: "abc123def456",
		GoVersion: "go1.24.0",
		Module:    "github.com/paveg/analytic",
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0\n")
	assert.Contains(t, str, "Build Date: 2024-01-01T00:00:00Z")
	assert.Contains(t, str, "Git Commit: abc123d")
	assert.Contains(t, str, "Go Version: go1.24.0")
	assert.Contains(t, str, "Module: github.com/paveg/analytic")
}

func TestBuildInfoStringUnknownFields(t *testing.T) {
	info := BuildInfo{
		Version:   "dev",
		BuildDate: unknownValue,
		GitCommit: unknownValue,
		Dirty:     true,
	}

	str := info.String()
	assert.Contains(t, str, "Version: dev (dirty)")
	assert.NotContains(t, str, "Build Date")
	assert.NotContains(t, str, "Git Commit")
}

func TestBuildInfoJSON(t *testing.T) {
	info := BuildInfo{Version: "v0.3.0", GitCommit: "abc", GoVersion: "go1.24.0"}

	out, err := info.JSON()
	require.NoError(t, err)

	var decoded BuildInfo
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, info, decoded)
	assert.Contains(t, string(out), `"git_commit": "abc"`)
}

func TestIsRelease(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		version    string
		release    bool
		preRelease bool
	}{
		{"dev", false, false},
		{"v1.0.0", true, false},
		{"v1.0.0-alpha.1", false, true},
		{"v1.0.0-beta", false, true},
		{"v1.0.0-rc.2", false, true},
		{"v1.0.0-3-gabcdef", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.release, IsRelease())
			assert.Equal(t, tt.preRelease, IsPreRelease())
		})
	}
}
