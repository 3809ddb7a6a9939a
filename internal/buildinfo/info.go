// Package buildinfo carries version metadata stamped in with -ldflags.
package buildinfo

import "fmt"

// Set via -ldflags "-X github.com/paydown-dev/paydown/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the version line shown by --version and "paydown version".
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
