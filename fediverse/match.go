package fediverse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/util"
)

// ErrUnrecognizedURL marks input that matches no accepted reference form.
var ErrUnrecognizedURL = errors.New("not a recognized fediverse post reference")

// Reference is one parsed post reference: the instance that hosts the post
// and the post's id on that instance.
type Reference struct {
	// Host is the instance host, lowercased.
	Host string
	// ID is the post id, numeric or UUID depending on the software.
	ID string
	// Kind is the software kind when it is already known, from the
	// reference prefix or the instance registry. Unknown means the
	// resolver has to detect it first.
	Kind instance.Kind
	// URL is the full original URL. Empty for the short form.
	URL string
	// ShortForm marks the abbreviated host:id spelling.
	ShortForm bool
	// Permalink marks objects/ and activities/ URLs, which point at an
	// activity rather than at the post itself.
	Permalink bool
}

// referenceRe accepts every post URL shape across the supported software
// families, plus the abbreviated host:id form with an optional software
// prefix pinning the kind.
var referenceRe = regexp.MustCompile(`^(?:(?P<prefix>mastodon|mstdn|mtdn|pleroma|peertube):)?` +
	`(?:https?://(?P<host>[^/\s]+)/(?P<shape>` +
	`@[a-zA-Z0-9_-]+` +
	`|web/statuses` +
	`|users/[a-zA-Z0-9_-]+/statuses` +
	`|[a-zA-Z0-9_-]+/posts` +
	`|notice` +
	`|objects` +
	`|activities` +
	`|videos/watch` +
	`)/|(?P<shorthost>[^:/\s]+)(?P<short>:))` +
	`(?P<id>[0-9a-zA-Z-]+)/?(?:[?#].*)?$`)

// Match parses a single input argument into a Reference.
func Match(arg string) (*Reference, error) {
	groups := util.ReGroups(referenceRe, arg)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%q: %w", arg, ErrUnrecognizedURL)
	}

	ref := &Reference{
		ID:        groups["id"],
		ShortForm: groups["short"] != "",
	}

	if ref.ShortForm {
		ref.Host = strings.ToLower(groups["shorthost"])
	} else {
		ref.Host = strings.ToLower(groups["host"])
		ref.URL = arg
		shape := groups["shape"]
		ref.Permalink = shape == "objects" || shape == "activities"
	}

	if kind, ok := instance.ParseKind(groups["prefix"]); ok {
		ref.Kind = kind
	} else if groups["shape"] == "videos/watch" {
		// watch URLs exist on exactly one software
		ref.Kind = instance.PeerTube
	} else {
		ref.Kind = instance.Classify(ref.Host)
	}

	return ref, nil
}
