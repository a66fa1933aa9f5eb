package version

// These variables are set via ldflags at build time.
// Example: go build -ldflags "-X financebooks/internal/version.Version=1.1.0"
var (
	Version   = "1.1"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
