package instance

// static is the built-in allow-list of hosts with known software.
// Curated from the public instance directories of each project; hosts listed
// here never require detection traffic.
var static = map[string]Kind{
	// Mastodon family
	"mastodon.social":        Mastodon,
	"mastodon.online":        Mastodon,
	"mstdn.social":           Mastodon,
	"mstdn.jp":               Mastodon,
	"pawoo.net":              Mastodon,
	"baraag.net":             Mastodon,
	"fosstodon.org":          Mastodon,
	"hachyderm.io":           Mastodon,
	"mas.to":                 Mastodon,
	"mastodon.art":           Mastodon,
	"mastodon.gamedev.place": Mastodon,
	"techhub.social":         Mastodon,

	// Pleroma family (incl. Akkoma and Soapbox frontends)
	"pleroma.soykaf.com": Pleroma,
	"outerheaven.club":   Pleroma,
	"stereophonic.space": Pleroma,
	"donotsta.re":        Pleroma,
	"gleasonator.com":    Pleroma,
	"shitposter.club":    Pleroma,
	"poa.st":             Pleroma,

	// Gab Social
	"gab.com": GabSocial,

	// PeerTube
	"framatube.org":           PeerTube,
	"tilvids.com":             PeerTube,
	"video.blender.org":       PeerTube,
	"peertube.tv":             PeerTube,
	"tube.shanti.cafe":        PeerTube,
	"videos.elenarossini.com": PeerTube,
}

// impossible hosts share URL shapes with fediverse posts but never run
// supported software; they short-circuit classification.
var impossible = map[string]struct{}{
	"medium.com": {},
	"lbry.tv":    {},
}
