// Package auth executes the per-family OAuth login flows and owns the session
// token for the home instance.
package auth

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLoginFlow indicates software that is recognized but has no
// implemented login dialect. Expected and user-facing: the caller should use
// the full content URL instead of a login-dependent shortcut.
var ErrUnsupportedLoginFlow = errors.New("no login flow implemented for this instance software; pass the full content URL instead")

// ErrReauthenticationRequired indicates an expired refresh token; surfaced
// to the user as "login required".
var ErrReauthenticationRequired = errors.New("login required: session expired and could not be refreshed")

// AuthError carries a non-2xx response from a sign-in or token endpoint,
// with any message extracted from the response body surfaced verbatim.
type AuthError struct {
	Host       string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: authentication failed with status %d", e.Host, e.StatusCode)
	}
	return fmt.Sprintf("%s: authentication failed: %s", e.Host, e.Message)
}
