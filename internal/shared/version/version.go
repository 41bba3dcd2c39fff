// Package version carries build metadata injected with -ldflags.
package version

import "runtime/debug"

var (
	// Version is the release tag, e.g. "v1.4.0".
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = ""
)

// Info returns the version and the VCS revision, reading the revision from
// the embedded build info when it was not injected.
func Info() (string, string) {
	commit := Commit
	if commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
					break
				}
			}
		}
	}
	return Version, commit
}
