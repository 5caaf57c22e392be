// Package version holds build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/jmylchreest/repalette/internal/version.Version=v1.2.0 \
//	  -X github.com/jmylchreest/repalette/internal/version.Commit=$(git rev-parse HEAD) \
//	  -X github.com/jmylchreest/repalette/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build information of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line description such as
// "repalette version v1.2.0 (commit: 1a2b3c4d, built: ..., go1.25.1, linux/amd64)".
func String() string {
	info := Get()
	if info.Commit == "unknown" || info.Date == "unknown" {
		return fmt.Sprintf("repalette version %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
	}
	commit := info.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("repalette version %s (commit: %s, built: %s, %s, %s)",
		info.Version, commit, info.Date, info.GoVersion, info.Platform)
}

// Short returns just the version.
func Short() string {
	return Version
}
