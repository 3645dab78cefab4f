package version

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"dev build", "dev", "none", "unknown", "dev (development build)"},
		{"release", "v0.3.0", "a1b2c3d", "2026-10-01", "v0.3.0 (commit: a1b2c3d, built: 2026-10-01)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
				t.Errorf("FormatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetVersionComponents(t *testing.T) {
	v, c, d := GetVersionComponents()
	if v != Version || c != Commit || d != Date {
		t.Errorf("components %q %q %q do not match package vars", v, c, d)
	}
	if GetVersion() != FormatVersion(Version, Commit, Date) {
		t.Error("GetVersion disagrees with FormatVersion")
	}
}
