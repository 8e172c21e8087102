// Package buildinfo carries version details stamped into the stacktrack binary.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/wombat6/stacktrack/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the text printed by stacktrack --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
