// Package version reports the build of the apigen binary.
package version

import "fmt"

// Set with -ldflags "-X github.com/example/apigen/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String formats the version for `apigen --version`. Unset build metadata is omitted.
func String() string {
	s := "apigen " + Version
	if c := shortCommit(); c != "" {
		s += fmt.Sprintf(" (%s)", c)
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}

func shortCommit() string {
	const size = 7
	if len(Commit) > size {
		return Commit[:size]
	}
	return Commit
}
