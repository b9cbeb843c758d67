package app

import (
	"fmt"
	"runtime/debug"
)

// Version and Commit may be set with -ldflags "-X". When Commit is left
// empty the VCS revision stamped by the Go toolchain is used.
var (
	Version = "dev"
	Commit  = ""
)

// BuildVersion returns the version string logged at startup.
func BuildVersion() string {
	return formatVersion(Version, Commit, readBuildInfo)
}

func readBuildInfo() (*debug.BuildInfo, bool) { return debug.ReadBuildInfo() }

func formatVersion(version, commit string, info func() (*debug.BuildInfo, bool)) string {
	modified := false
	if commit == "" {
		commit = "unknown"
		if bi, ok := info(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					commit = s.Value[:min(len(s.Value), 12)]
				case "vcs.modified":
					modified = s.Value == "true"
				}
			}
		}
	}
	if modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}
