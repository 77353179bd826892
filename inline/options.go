// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"io"

	"github.com/samber/mo"

	"github.com/fedigrab-cli/fedigrab/auth"
	"github.com/fedigrab-cli/fedigrab/credential"
)

type Options struct {
	Out io.Writer
	// URLs are the post references to process, in order.
	URLs []string
	// Login overrides the configured credential. Absent means the
	// configured one is used, or anonymous mode when none is set.
	Login mo.Option[credential.Login]
	// Passwords overrides the keyring lookup, used by the CLI to fall
	// back to an interactive prompt.
	Passwords auth.PasswordSource
	Json      bool
	// JsonSchema prints the schema of the JSON output and exits.
	JsonSchema bool
	// Describe adds titles and word-wrapped descriptions to plain output.
	Describe bool
}

// login resolves the effective credential: the explicit override first,
// then the configured one.
func (o *Options) login() (credential.Login, bool, error) {
	if l, ok := o.Login.Get(); ok {
		return l, true, nil
	}
	return credential.ConfiguredLogin()
}
