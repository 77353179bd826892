package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fedigrab-cli/fedigrab/log"
)

// mastodonDialect drives the Mastodon-family sign-in: an e-mail/password
// form posted to /auth/sign_in, then an Authorize confirmation form, with
// the authorization code delivered as a redirect query parameter.
type mastodonDialect struct{}

func (mastodonDialect) BeginLogin(ctx context.Context, f *flow) (string, error) {
	return getPage(ctx, f.authorizeURL())
}

func (mastodonDialect) SubmitCredentials(ctx context.Context, f *flow, page string) (*loginResult, error) {
	if !strings.Contains(f.login.User, "@") {
		log.Warnf("Mastodon instances expect an e-mail address as the account name, got %q", f.login.User)
	}

	form, err := hiddenInputs(page)
	if err != nil {
		return nil, err
	}
	form.Set("user[email]", f.login.User)
	form.Set("user[password]", f.password)

	res, err := postForm(ctx, f.host, f.base+"/auth/sign_in", form)
	if err != nil {
		return nil, err
	}

	// a previously authorized app skips the confirmation page: the sign-in
	// already redirected to the out-of-band authorization URL
	if strings.Contains(res.finalURL.Path, "/oauth/authorize/native") {
		return res, nil
	}

	action, confirm, err := authorizeForm(res.body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.host, err)
	}

	confirmURL := f.base + "/oauth/authorize"
	if action != "" && action != "/oauth/authorize" {
		confirmURL = f.base + action
	}
	return postForm(ctx, f.host, confirmURL, confirm)
}

func (mastodonDialect) ExtractAuthCode(res *loginResult) (string, error) {
	code := res.finalURL.Query().Get("code")
	if code == "" {
		return "", errors.New("authorization redirect carried no code parameter")
	}
	return code, nil
}
