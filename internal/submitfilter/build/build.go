// Package build holds information about the binary, set at link time with e.g.
// -ldflags "-X github.com/G-Research/submitfilter/internal/submitfilter/build.ReleaseVersion=v0.1.0".
package build

import "runtime"

var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
	GoVersion      = runtime.Version()
)
