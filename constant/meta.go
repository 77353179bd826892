// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Fedigrab is the canonical application identifier used for filesystem paths and CLI branding.
	Fedigrab = "fedigrab"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for network requests to fediverse instances.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden by the release pipeline via ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// OAuth application registration parameters, fixed for every instance.
const (
	OAuthClientName  = "fedigrab"
	OAuthClientSite  = "https://github.com/fedigrab-cli/fedigrab"
	OAuthRedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	OAuthScope       = "read"
)
