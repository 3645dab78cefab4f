/*
Package version holds build information for dev-advisor.

Values are set via ldflags during build:

	go build -ldflags "-X github.com/khanglvm/dev-advisor/internal/version.Version=v0.3.0 \
	  -X github.com/khanglvm/dev-advisor/internal/version.Commit=$(git rev-parse --short HEAD) \
	  -X github.com/khanglvm/dev-advisor/internal/version.Date=$(date -u +%F)"

Unset values leave a "dev" build.
*/
package version

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the display string used by --version.
func GetVersion() string {
	return FormatVersion(Version, Commit, Date)
}

// FormatVersion formats version components into a display string.
func FormatVersion(version, commit, date string) string {
	if version == "dev" {
		return version + " (development build)"
	}
	return version + " (commit: " + commit + ", built: " + date + ")"
}

// GetVersionComponents returns individual version components.
func GetVersionComponents() (version, commit, date string) {
	return Version, Commit, Date
}
