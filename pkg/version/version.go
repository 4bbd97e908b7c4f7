// Package version contains version information for cmdgraph.
package version

import "fmt"

var (
	// Version is the current version of cmdgraph.
	Version = "dev"
	// BuildTime is the time when the binary was built.
	BuildTime = "unknown"
	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)

// String returns the version with its build information
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
