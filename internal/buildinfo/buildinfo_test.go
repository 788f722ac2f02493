package buildinfo

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	pv, pc, pd := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = pv, pc, pd })
	Version, Commit, Date = version, commit, date
}

func TestDescribeFromModuleInfo(t *testing.T) {
	stamp(t, "", "", "")

	info := describe(&debug.BuildInfo{
		GoVersion: "go1.24.2",
		Main:      debug.Module{Path: "github.com/aidanlsb/mtpoi", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-09-30T08:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	assert.Equal(t, Info{
		Version:    "v0.3.1",
		ModulePath: "github.com/aidanlsb/mtpoi",
		Commit:     "abc123",
		CommitTime: "2026-09-30T08:00:00Z",
		Modified:   true,
		GoVersion:  "go1.24.2",
		GOOS:       "windows",
		GOARCH:     "amd64",
	}, info)
}

func TestDescribeWithoutModuleInfo(t *testing.T) {
	stamp(t, "", "", "")

	info := describe(nil)
	assert.Equal(t, devel, info.Version)
	assert.Equal(t, modulePath, info.ModulePath)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.GOOS)
	assert.False(t, info.Modified)
}

func TestStampedValuesFillGaps(t *testing.T) {
	stamp(t, "v1.2.0", "f00d", "2026-10-01")

	info := describe(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "f00d", info.Commit)
	assert.Equal(t, "2026-10-01", info.CommitTime)

	info = describe(&debug.BuildInfo{
		Main:     debug.Module{Version: "v1.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "beef"}},
	})
	assert.Equal(t, "v1.3.0", info.Version)
	assert.Equal(t, "beef", info.Commit)
}

func TestCurrentUsesReader(t *testing.T) {
	stamp(t, "", "", "")
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v9.0.0"}}, false
	}
	assert.Equal(t, devel, Current().Version)

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v9.0.0"}}, true
	}
	assert.Equal(t, "v9.0.0", Current().Version)
}
