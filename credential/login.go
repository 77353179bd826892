// Package credential manages the user's home-instance login and the per-instance
// OAuth application registrations.
package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fedigrab-cli/fedigrab/key"
	"github.com/spf13/viper"
)

// ErrMalformedCredential indicates a credential string that cannot be split
// into an account and an instance host. Configuration error: the user must
// fix the input.
var ErrMalformedCredential = errors.New("credential must be in the form user[@email]@instance")

// Login identifies the account used to authenticate against the home instance.
type Login struct {
	// User is the account name or e-mail, possibly containing one @ itself.
	User string
	// Instance is the host the account lives on.
	Instance string
}

// ParseLogin splits a credential of the form user[@email]@home-instance on the
// LAST @: the account part may itself be an e-mail address, so only the final
// separator delimits the instance.
func ParseLogin(credential string) (Login, error) {
	at := strings.LastIndex(credential, "@")
	if at <= 0 || at == len(credential)-1 {
		return Login{}, fmt.Errorf("%q: %w", credential, ErrMalformedCredential)
	}

	return Login{
		User:     credential[:at],
		Instance: strings.ToLower(credential[at+1:]),
	}, nil
}

// ConfiguredLogin reads the login.credential config value. The second return
// reports whether a credential is configured at all: anonymous extraction is
// a supported mode, a missing credential is not an error.
func ConfiguredLogin() (Login, bool, error) {
	raw := viper.GetString(key.LoginCredential)
	if raw == "" {
		return Login{}, false, nil
	}

	login, err := ParseLogin(raw)
	if err != nil {
		return Login{}, false, err
	}
	return login, true, nil
}
