// Package version carries build-time version information.
package version

// Set via ldflags:
//
//	go build -ldflags "-X github.com/pistolinkr/Mactaphine/internal/version.Version=1.0.0"
var (
	Version = "dev"
	Commit  = "none"
)
