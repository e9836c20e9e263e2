package app

// Build information populated via -ldflags at build time.
var (
    BuildVersion = "0.0.0-dev"
    BuildCommit  = "unknown"
    BuildDate    = "unknown"
)

// VersionString renders the build information on one line.
func VersionString() string {
    return BuildVersion + " (commit " + BuildCommit + ", built " + BuildDate + ")"
}
