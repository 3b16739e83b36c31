// Package version exposes build information for the remint binary.
package version

import "runtime/debug"

// Filled in at link time via -ldflags; InitBinaryVersion supplies fallbacks
// from the embedded build info for plain `go install` builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// vcsRevisionShortLen is how many hex digits of the VCS revision are shown.
const vcsRevisionShortLen = 12

// InitBinaryVersion backfills version metadata from the binary's build info
// when it was not injected at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && setting.Value != "" {
				revision := setting.Value
				if len(revision) > vcsRevisionShortLen {
					revision = revision[:vcsRevisionShortLen]
				}

				Commit = revision
			}
		case "vcs.time":
			if Date == "unknown" && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}
