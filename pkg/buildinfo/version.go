// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/hlstatsx/heatmaps/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/hlstatsx/heatmaps/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/hlstatsx/heatmaps/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/heatmaps
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("heatmaps %s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the version template for cobra's --version output.
func Template() string {
	return String() + "\n"
}
