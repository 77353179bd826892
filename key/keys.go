// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Login & Credentials - these keys manage the home-instance account used for authenticated extraction.
const (
	LoginCredential = "login.credential"
)

// Instance Handling - these keys govern software detection and the set of trusted hosts.
const (
	InstancesExtra        = "instances.extra"
	InstancesProbeUnknown = "instances.probe_unknown"
)

// Network - these keys configure the shared HTTP client behavior.
const (
	NetworkTLSSpoof = "network.tls_spoof"
)

// Extraction - these keys configure the media/metadata extraction behavior.
const (
	ExtractCardFallback = "extract.card_fallback"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
