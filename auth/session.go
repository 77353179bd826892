package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fedigrab-cli/fedigrab/credential"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/log"
)

// State is the session's position in the login state machine.
type State int

const (
	Anonymous State = iota
	AppRegistered
	AwaitingTokenExchange
	Authenticated
	Refreshing
)

// expiryMargin is the safety window before access-token expiry: no
// authenticated call goes out with less than this much lifetime left.
const expiryMargin = 5 * time.Second

// PasswordSource supplies the account password for an instance host.
type PasswordSource func(instanceHost string) (string, error)

// KeyringPasswords is the default PasswordSource, backed by the system keyring.
func KeyringPasswords(instanceHost string) (string, error) {
	return credential.GetPassword(instanceHost)
}

// Session owns the token for one home instance. One session per process run;
// it never terminates, cycling between Authenticated and Refreshing. All
// state is explicit here and passed by reference, never package-global.
type Session struct {
	mu        sync.Mutex
	login     credential.Login
	dialect   Dialect
	passwords PasswordSource

	base  string
	state State
	app   *credential.App
	token *Token
}

// NewSession builds the session for a home instance. The login dialect is
// resolved once from the detected software kind; kinds without a dialect fail
// here with ErrUnsupportedLoginFlow.
func NewSession(login credential.Login, kind instance.Kind, passwords PasswordSource) (*Session, error) {
	dialect, err := dialectFor(kind)
	if err != nil {
		return nil, err
	}
	if passwords == nil {
		passwords = KeyringPasswords
	}

	return &Session{
		login:     login,
		dialect:   dialect,
		passwords: passwords,
		base:      "https://" + login.Instance,
		state:     Anonymous,
	}, nil
}

// Preauthorize seeds the session with an already-issued access token,
// skipping the login flow. The session refreshes or logs in again as usual
// once the token goes stale.
func (s *Session) Preauthorize(accessToken string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &Token{AccessToken: accessToken, TokenType: "Bearer", AccessExpiresAt: expiresAt}
	s.state = Authenticated
}

// Host returns the home instance host.
func (s *Session) Host() string {
	return s.login.Instance
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authorization returns a header value with a guaranteed-fresh access token,
// logging in lazily on first use and refreshing when the token is within the
// expiry margin. Concurrent callers block on an in-flight login or refresh
// rather than duplicating it.
func (s *Session) Authorization(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureAuthenticated(ctx); err != nil {
		return "", err
	}
	return s.token.Authorization(), nil
}

// ensureAuthenticated is the state-machine driver. Caller holds s.mu.
func (s *Session) ensureAuthenticated(ctx context.Context) error {
	if s.token == nil {
		return s.runLogin(ctx)
	}
	if s.stale() {
		return s.refresh(ctx)
	}
	return nil
}

// runLogin drives Anonymous → AppRegistered → AwaitingTokenExchange →
// Authenticated through the selected dialect.
func (s *Session) runLogin(ctx context.Context) error {
	host := s.login.Instance

	if s.app == nil {
		app, err := credential.GetOrRegister(ctx, host)
		if err != nil {
			return err
		}
		s.app = app
	}
	s.state = AppRegistered

	password, err := s.passwords(host)
	if err != nil {
		s.state = Anonymous
		return fmt.Errorf("%s: no password available: %w", host, err)
	}

	f := &flow{base: s.base, host: host, app: s.app, login: s.login, password: password}

	page, err := s.dialect.BeginLogin(ctx, f)
	if err != nil {
		s.state = Anonymous
		return err
	}

	res, err := s.dialect.SubmitCredentials(ctx, f, page)
	if err != nil {
		s.state = Anonymous
		return err
	}
	s.state = AwaitingTokenExchange

	code, err := s.dialect.ExtractAuthCode(res)
	if err != nil {
		s.state = Anonymous
		return fmt.Errorf("%s: %w", host, err)
	}

	token, err := exchangeCode(ctx, s.base, host, f, code)
	if err != nil {
		s.state = Anonymous
		return err
	}

	log.Infof("authenticated against %s", host)
	s.token = token
	s.state = Authenticated
	return nil
}

// stale reports whether the access token is expired or within the margin.
// A zero expiry means the token never expires.
func (s *Session) stale() bool {
	return !s.token.AccessExpiresAt.IsZero() &&
		time.Until(s.token.AccessExpiresAt) < expiryMargin
}

// refresh drives Authenticated → Refreshing → Authenticated, or back to
// Anonymous when the refresh token itself is no longer usable.
func (s *Session) refresh(ctx context.Context) error {
	host := s.login.Instance
	s.state = Refreshing

	expired := s.token.RefreshToken == "" ||
		(!s.token.RefreshExpiresAt.IsZero() && time.Now().After(s.token.RefreshExpiresAt))
	if expired {
		s.token = nil
		s.state = Anonymous
		return fmt.Errorf("%s: %w", host, ErrReauthenticationRequired)
	}

	token, err := refreshToken(ctx, s.base, host, s.app.ClientID, s.app.ClientSecret, s.token.RefreshToken)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			// the instance rejected the refresh token outright
			s.token = nil
			s.state = Anonymous
			return fmt.Errorf("%s: %w", host, ErrReauthenticationRequired)
		}
		// transport trouble: keep the session, let the caller retry
		s.state = Authenticated
		return err
	}

	log.Infof("refreshed session token for %s", host)
	s.token = token
	s.state = Authenticated
	return nil
}
