package fediverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/fedigrab-cli/fedigrab/auth"
	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/network"
)

var scheme = "https"

// Client fetches status documents, authenticating against the session's
// home instance when one is available.
type Client struct {
	session *auth.Session
}

// NewClient builds a client. A nil session means every call is anonymous.
func NewClient(session *auth.Session) *Client {
	return &Client{session: session}
}

// Session returns the client's session, nil when anonymous.
func (c *Client) Session() *auth.Session {
	return c.session
}

// Status fetches a post by id from the instance that hosts it. The Bearer
// token is attached only for the session's own home instance; foreign
// instances never see the credential.
func (c *Client) Status(ctx context.Context, host, id string) (*Status, error) {
	endpoint := fmt.Sprintf("%s://%s/api/v1/statuses/%s", scheme, host, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	if c.session != nil && c.session.Host() == host {
		authorization, err := c.session.Authorization(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", authorization)
	}

	resp, err := network.Instance().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %s: unexpected response %d", host, id, resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%s: decoding status %s: %w", host, id, err)
	}
	return &status, nil
}

var ogURLRe = regexp.MustCompile(`<meta[^>]+(?:property=["']og:url["'][^>]+content=["']([^"']+)|content=["']([^"']+)["'][^>]+property=["']og:url["'])`)

// CanonicalURL turns an objects/ or activities/ permalink into the post URL
// it stands for, without authentication. Instances usually answer these with
// a redirect to the post; the redirect target is read directly, with the
// page's og:url property as the fallback.
func (c *Client) CanonicalURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.NoRedirectClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if location, err := resp.Location(); err == nil {
			return location.String(), nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	m := ogURLRe.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("%s: page exposes no og:url to follow", rawURL)
	}
	if len(m[1]) > 0 {
		return string(m[1]), nil
	}
	return string(m[2]), nil
}
