// Package buildinfo exposes the version stamped into mindlayout binaries.
//
// Release builds inject the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/mindlayout/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/mindlayout/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/mindlayout/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name used in version output and the Server header.
const Name = "mindlayout"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Short returns "version (commit)" with the commit cut to seven characters.
func Short() string {
	c := Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, c)
}

// UserAgent identifies this build in HTTP headers, e.g. "mindlayout/v1.2.3".
func UserAgent() string {
	return Name + "/" + Version
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
