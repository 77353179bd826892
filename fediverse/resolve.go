package fediverse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/log"
	"github.com/fedigrab-cli/fedigrab/network"
)

var (
	// ErrAmbiguousRemoteContent means the home instance's federated search
	// did not come back with exactly one status for the remote URL.
	ErrAmbiguousRemoteContent = errors.New("remote content did not resolve to exactly one status")

	// ErrUnsupportedShortForm means the host:id form cannot be expanded
	// into a canonical URL for this software, because the post URL needs a
	// username the short form does not carry.
	ErrUnsupportedShortForm = errors.New("short form cannot be resolved for this software, pass the full post URL")
)

// Resolve pulls a remote post through the home instance's federated search,
// so the home instance assigns it a local representation the session can
// read. Call it only when the reference's host differs from the session's.
func (c *Client) Resolve(ctx context.Context, ref *Reference) (*Status, error) {
	if c.session == nil {
		return nil, fmt.Errorf("%s: resolving remote content requires a configured login", ref.Host)
	}

	remote, err := c.canonicalRemoteURL(ctx, ref)
	if err != nil {
		return nil, err
	}

	home := c.session.Host()
	authorization, err := c.session.Authorization(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"q":       {remote},
		"type":    {"statuses"},
		"resolve": {"true"},
	}
	endpoint := fmt.Sprintf("%s://%s/api/v2/search?%s", scheme, home, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Authorization", authorization)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", home, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: federated search: unexpected response %d", home, resp.StatusCode)
	}

	var result struct {
		Statuses []Status `json:"statuses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: decoding search result: %w", home, err)
	}

	if len(result.Statuses) != 1 {
		return nil, fmt.Errorf("%s: %d statuses for %s: %w",
			home, len(result.Statuses), remote, ErrAmbiguousRemoteContent)
	}

	log.Infof("resolved %s through %s as status %s", remote, home, result.Statuses[0].ID)
	return &result.Statuses[0], nil
}

// canonicalRemoteURL expands a reference into the URL the federated search
// is queried with. Full URLs pass through untouched; the short form needs
// the host's software to pick the path shape.
func (c *Client) canonicalRemoteURL(ctx context.Context, ref *Reference) (string, error) {
	if !ref.ShortForm {
		return ref.URL, nil
	}

	kind := ref.Kind
	if kind == instance.Unknown {
		detected, err := instance.Detect(ctx, ref.Host, "")
		if err != nil {
			return "", err
		}
		kind = detected
	}

	switch kind {
	case instance.Pleroma:
		part := "notice"
		if strings.Contains(ref.ID, "-") { // UUID ids live under objects/
			part = "objects"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, ref.Host, part, ref.ID), nil
	case instance.PeerTube:
		return fmt.Sprintf("%s://%s/videos/watch/%s", scheme, ref.Host, ref.ID), nil
	default:
		// mastodon and gab post URLs embed the username, which the short
		// form does not carry and which cannot be known before the fetch
		return "", fmt.Errorf("%s:%s (%s): %w", ref.Host, ref.ID, kind, ErrUnsupportedShortForm)
	}
}
