// Package buildinfo exposes the version stamped into chemlayout binaries.
//
// The variables are set with ldflags at build time:
//
//	go build -ldflags "-X github.com/matzehuels/chemlayout/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/chemlayout/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/chemlayout
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is a snapshot of the build variables, shaped for JSON responses.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
}

// Template returns the cobra version template.
func Template() string {
	i := Current()
	return fmt.Sprintf("{{.Name}} %s (%s, built %s, %s)\n", i.Version, i.Commit, i.Date, i.GoVersion)
}
