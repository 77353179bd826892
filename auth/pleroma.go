package auth

import (
	"context"
	"errors"
	"regexp"

	"github.com/fedigrab-cli/fedigrab/constant"
)

// pleromaDialect drives the Pleroma-family login: a single authorization
// form posted straight to /oauth/authorize, with the token code embedded in
// the response body rather than a redirect query parameter.
type pleromaDialect struct{}

// tokenCodeRe matches the code heading of Pleroma's out-of-band result page.
var tokenCodeRe = regexp.MustCompile(`(?s)<h2>\s*Token code is\s*<br>\s*([a-zA-Z\d_-]+)\s*</h2>`)

func (pleromaDialect) BeginLogin(ctx context.Context, f *flow) (string, error) {
	return getPage(ctx, f.authorizeURL())
}

func (pleromaDialect) SubmitCredentials(ctx context.Context, f *flow, page string) (*loginResult, error) {
	form, err := hiddenInputs(page)
	if err != nil {
		return nil, err
	}
	form.Set("authorization[scope][]", constant.OAuthScope)
	form.Set("authorization[name]", f.login.User)
	form.Set("authorization[password]", f.password)

	return postForm(ctx, f.host, f.base+"/oauth/authorize", form)
}

func (pleromaDialect) ExtractAuthCode(res *loginResult) (string, error) {
	match := tokenCodeRe.FindStringSubmatch(res.body)
	if match == nil {
		return "", errors.New("token code not found in authorization response")
	}
	return match[1], nil
}
