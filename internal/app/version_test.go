package app

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	stamped := func(settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
		return func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Settings: settings}, true
		}
	}
	noInfo := func() (*debug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		name   string
		commit string
		info   func() (*debug.BuildInfo, bool)
		want   string
	}{
		{"ldflags commit wins", "abc123", stamped(debug.BuildSetting{Key: "vcs.revision", Value: "ffff"}), "1.2.0 (abc123)"},
		{"vcs revision shortened", "", stamped(debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"}), "1.2.0 (0123456789ab)"},
		{"dirty tree", "", stamped(
			debug.BuildSetting{Key: "vcs.revision", Value: "deadbeef"},
			debug.BuildSetting{Key: "vcs.modified", Value: "true"},
		), "1.2.0 (deadbeef+dirty)"},
		{"no build info", "", noInfo, "1.2.0 (unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatVersion("1.2.0", tt.commit, tt.info); got != tt.want {
				t.Errorf("formatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildVersion(t *testing.T) {
	t.Parallel()

	if !strings.HasPrefix(BuildVersion(), Version+" (") {
		t.Errorf("BuildVersion() = %q", BuildVersion())
	}
}
