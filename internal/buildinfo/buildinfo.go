// Package buildinfo carries the version stamped into the server and storectl binaries
package buildinfo

import "time"

// Set via -ldflags at build time
var (
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Version reports the commit hash and build time, or "dev" for unstamped builds
func Version() string {
	if CommitHash == "" {
		return "dev"
	}
	if BuildTime == "" {
		return CommitHash
	}
	return CommitHash + " (" + BuildTime + ")"
}
