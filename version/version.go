// Package version reports the build version of a reducekit binary.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

// Get returns the version information, filling the commit and Go version
// from the embedded build info when ldflags did not set them.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "version", "version-commit" or "version-commit-dirty".
func Short() string {
	return Get().String()
}

// String formats the info like Short.
func (i Info) String() string {
	switch {
	case i.GitCommit == "":
		return i.Version
	case i.IsDirty:
		return fmt.Sprintf("%s-%s-dirty", i.Version, i.GitCommit)
	default:
		return fmt.Sprintf("%s-%s", i.Version, i.GitCommit)
	}
}
