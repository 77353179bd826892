package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/network"
)

// Token is the session token for the home instance, with absolute expiry
// timestamps computed from the endpoint's relative expires_in fields.
type Token struct {
	AccessToken      string
	TokenType        string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Authorization renders the token as an Authorization header value.
func (t *Token) Authorization() string {
	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + t.AccessToken
}

// tokenResponse is the wire shape of /oauth/token responses.
type tokenResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// toToken converts relative expiries into absolute timestamps at receipt
// time. A zero expires_in means the token does not expire; the zero
// time.Time encodes that.
func (r *tokenResponse) toToken(now time.Time) *Token {
	t := &Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}
	if r.ExpiresIn > 0 {
		t.AccessExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	if r.RefreshTokenExpiresIn > 0 {
		t.RefreshExpiresAt = now.Add(time.Duration(r.RefreshTokenExpiresIn) * time.Second)
	}
	return t
}

// exchangeCode trades an authorization code for a token pair.
func exchangeCode(ctx context.Context, base, host string, f *flow, code string) (*Token, error) {
	return postToken(ctx, base, host, url.Values{
		"client_id":     {f.app.ClientID},
		"client_secret": {f.app.ClientSecret},
		"redirect_uri":  {constant.OAuthRedirectURI},
		"scope":         {constant.OAuthScope},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	})
}

// refreshToken trades a refresh token for a fresh token pair.
func refreshToken(ctx context.Context, base, host, clientID, clientSecret, refresh string) (*Token, error) {
	return postToken(ctx, base, host, url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"refresh_token": {refresh},
		"scope":         {constant.OAuthScope},
		"grant_type":    {"refresh_token"},
	})
}

func postToken(ctx context.Context, base, host string, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/oauth/token", strings.NewReader(form.Encode()))
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

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Host: host, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &AuthError{Host: host, StatusCode: resp.StatusCode, Message: "malformed token response"}
	}

	return parsed.toToken(time.Now()), nil
}

// errorMessage extracts a human-readable message from an error response body.
// OAuth endpoints answer JSON with error/error_description; anything else is
// surfaced as truncated raw text.
func errorMessage(body []byte) string {
	var parsed struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.ErrorDescription != "" {
			return parsed.ErrorDescription
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
