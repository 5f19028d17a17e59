// Package version holds build metadata, set with -ldflags -X.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the text printed by --version.
func String() string {
	return fmt.Sprintf("acetylene %s (commit %s, built %s)\n", Version, Commit, Date)
}
