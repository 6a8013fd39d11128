// Package version holds the CLI version string.
package version

// Version is the skillkit version, overridden at build time via
// -ldflags "-X github.com/thatrebeccarae/claude-code-skills/internal/version.Version=...".
var Version = "0.4.0-dev"
