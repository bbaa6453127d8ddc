// Package version exposes build metadata injected via -ldflags.
package version

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/rshade/fintrack/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the CLI version string.
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	return commit
}
