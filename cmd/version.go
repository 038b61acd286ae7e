// Package cmd holds build metadata shared by the slsah binaries.
package cmd

import "runtime/debug"

// Set with -ldflags "-X github.com/thoreinstein/slsah/cmd.Version=..." by
// release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// BuildInfo returns the version, commit and date of the running binary.
// Values not injected at link time are filled from the module and VCS
// metadata the Go toolchain embeds, as for go install builds.
func BuildInfo() (version, commit, date string) {
	version, commit, date = Version, Commit, Date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "none":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case s.Key == "vcs.time" && date == "unknown":
			date = s.Value
		}
	}
	return version, commit, date
}
