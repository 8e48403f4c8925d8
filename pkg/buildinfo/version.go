// Package buildinfo carries version information injected at link time:
//
//	go build -ldflags "-X github.com/matzehuels/linkagesim/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/linkagesim/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/linkagesim/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name used in version output and cache scopes.
const Name = "linkagesim"

var (
	Version = "dev"     // semantic version, e.g. "v1.2.3"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CacheScope returns the key prefix that keeps cached results of
// different releases apart.
func CacheScope() string {
	return Name + ":" + Version + ":"
}
