package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/pgraham/codetmpl/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/pgraham/codetmpl/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/pgraham/codetmpl/internal/version.Date={{.Date}}
)
