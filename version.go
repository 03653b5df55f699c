package lingo

// Version information for lingo.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/lingo.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "lingo"

	// Description is a short description of the application.
	Description = "AI-powered translation and proofreading for localization messages"

	// Version is the semantic version of the application.
	Version = "0.3.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/lingo"

	// License is the software license.
	License = "MIT"
)

// BuildInfo contains build-time information set via ldflags.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent with outgoing HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
