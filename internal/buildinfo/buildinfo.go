// Package buildinfo reports how the running binary was built. Release builds
// stamp Version, Commit and Date with -ldflags "-X"; everything else comes
// from the module build info embedded by the Go toolchain.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const (
	modulePath = "github.com/aidanlsb/mtpoi"
	devel      = "devel"
)

// Info is the build description printed by `mtpoi version`.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

var readBuildInfo = debug.ReadBuildInfo

// Current describes the running binary.
func Current() Info {
	bi, ok := readBuildInfo()
	if !ok {
		bi = nil
	}
	return describe(bi)
}

func describe(bi *debug.BuildInfo) Info {
	info := Info{
		Version:    devel,
		ModulePath: modulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		info.Version = cleanVersion(bi.Main.Version)
		info.ModulePath = orDefault(bi.Main.Path, info.ModulePath)
		info.GoVersion = orDefault(bi.GoVersion, info.GoVersion)
		info.GOOS = orDefault(settings["GOOS"], info.GOOS)
		info.GOARCH = orDefault(settings["GOARCH"], info.GOARCH)
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	}

	// Stamped values only fill gaps.
	if info.Version == devel {
		info.Version = cleanVersion(Version)
	}
	info.Commit = orDefault(info.Commit, Commit)
	info.CommitTime = orDefault(info.CommitTime, Date)
	return info
}

func cleanVersion(v string) string {
	if v == "" || v == "(devel)" {
		return devel
	}
	return v
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
