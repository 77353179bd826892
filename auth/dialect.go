package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/credential"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/network"
)

// Dialect is the per-family login strategy. A session selects its dialect
// once, from the detected software kind, and holds it for its lifetime.
type Dialect interface {
	// BeginLogin fetches the authorization page for the registered app.
	BeginLogin(ctx context.Context, f *flow) (page string, err error)
	// SubmitCredentials drives the family's HTML login form(s).
	SubmitCredentials(ctx context.Context, f *flow, page string) (*loginResult, error)
	// ExtractAuthCode pulls the authorization code out of the login result.
	ExtractAuthCode(res *loginResult) (string, error)
}

// dialectFor resolves the strategy for a software kind. Recognized kinds
// without an implemented dialect fail with ErrUnsupportedLoginFlow.
func dialectFor(kind instance.Kind) (Dialect, error) {
	switch kind {
	case instance.Mastodon:
		return mastodonDialect{}, nil
	case instance.Pleroma:
		return pleromaDialect{}, nil
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnsupportedLoginFlow)
	}
}

// flow bundles everything a dialect needs to run the login against one host.
type flow struct {
	base     string
	host     string
	app      *credential.App
	login    credential.Login
	password string
}

// loginResult is where a dialect's form submission ended up: the final URL
// after redirects and the response body.
type loginResult struct {
	finalURL *url.URL
	body     string
}

// authorizeURL is the authorization page for the app, shared by dialects.
func (f *flow) authorizeURL() string {
	q := url.Values{
		"client_id":     {f.app.ClientID},
		"scope":         {constant.OAuthScope},
		"redirect_uri":  {constant.OAuthRedirectURI},
		"response_type": {"code"},
	}
	return f.base + "/oauth/authorize?" + q.Encode()
}

// getPage fetches a page, following redirects, and returns its body.
func getPage(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postForm submits a form, following redirects, and reports where the
// submission ended up.
func postForm(ctx context.Context, host, rawURL string, form url.Values) (*loginResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &AuthError{Host: host, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	return &loginResult{finalURL: resp.Request.URL, body: string(body)}, nil
}
