// Package instance classifies fediverse hosts by the server software they run.
package instance

// Kind identifies a supported server software family.
type Kind string

const (
	// Mastodon covers mainline Mastodon and close forks sharing its web UI.
	Mastodon Kind = "mastodon"
	// Pleroma covers Pleroma, Akkoma and the Soapbox frontend.
	Pleroma Kind = "pleroma"
	// GabSocial is the Gab Social fork of Mastodon with its own login flow.
	GabSocial Kind = "gab"
	// PeerTube is the federated video platform with a distinct API.
	PeerTube Kind = "peertube"
	// Unknown means the host has not been classified yet.
	Unknown Kind = ""
)

func (k Kind) String() string {
	if k == Unknown {
		return "unknown"
	}
	return string(k)
}

// ParseKind maps a software name, as reported by NodeInfo or used as a URL
// prefix, to its Kind. Forks are folded into the family whose API and login
// dialect they share.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "mastodon", "mstdn", "mtdn", "hometown", "glitchcafe":
		return Mastodon, true
	case "pleroma", "akkoma", "soapbox", "rebased":
		return Pleroma, true
	case "gab":
		return GabSocial, true
	case "peertube":
		return PeerTube, true
	default:
		return Unknown, false
	}
}
