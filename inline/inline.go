// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/muesli/reflow/wordwrap"

	"github.com/fedigrab-cli/fedigrab/auth"
	"github.com/fedigrab-cli/fedigrab/extract"
	"github.com/fedigrab-cli/fedigrab/fediverse"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/log"
	"github.com/fedigrab-cli/fedigrab/util"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.JsonSchema {
		return writeSchema(options.Out)
	}

	// The session is built at most once, on first need; a URL on the home
	// instance and a cross-instance resolve share it.
	var (
		sessionOnce sync.Once
		session     *auth.Session
		sessionErr  error
	)
	lazySession := func() (*auth.Session, error) {
		sessionOnce.Do(func() {
			session, sessionErr = buildSession(ctx, options)
		})
		return session, sessionErr
	}

	records := make([]*Record, 0, len(options.URLs))
	failed := 0

	for _, raw := range options.URLs {
		result, err := processURL(ctx, raw, lazySession)
		if err != nil {
			// one bad URL must not abort the batch
			log.Errorf("%s: %v", raw, err)
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", raw, err)
			failed++
			records = append(records, &Record{URL: raw, Error: err.Error()})
			continue
		}
		records = append(records, &Record{URL: raw, Result: result})
	}

	if options.Json {
		return writeJson(options.Out, records)
	}

	for _, record := range records {
		if record.Result == nil {
			continue
		}
		writePlain(options, record.Result)
	}

	if failed > 0 && failed == len(options.URLs) {
		return fmt.Errorf("all %s failed", util.Quantify(failed, "url", "urls"))
	}
	return nil
}

// buildSession turns the configured credential into a session against the
// home instance. No credential means anonymous mode.
func buildSession(ctx context.Context, options *Options) (*auth.Session, error) {
	login, ok, err := options.login()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	kind := instance.Classify(login.Instance)
	if kind == instance.Unknown {
		kind, err = instance.Detect(ctx, login.Instance, "")
		if err != nil {
			return nil, err
		}
	}

	return auth.NewSession(login, kind, options.Passwords)
}

func processURL(ctx context.Context, raw string, lazySession func() (*auth.Session, error)) (*extract.Result, error) {
	ref, err := fediverse.Match(raw)
	if err != nil {
		return nil, err
	}

	session, err := lazySession()
	if err != nil {
		return nil, err
	}
	client := fediverse.NewClient(session)

	var status *fediverse.Status
	switch {
	case session != nil && ref.Host != session.Host():
		status, err = client.Resolve(ctx, ref)
	default:
		if ref.Kind == instance.PeerTube {
			// PeerTube has no statuses endpoint; ask its videos API
			video, err := client.Video(ctx, ref.Host, ref.ID)
			if err != nil {
				return nil, err
			}
			return extract.FromVideo(video)
		}
		if ref.Permalink && session == nil {
			// activity permalinks redirect to the real post; the canonical
			// URL is on the page for anonymous callers
			canonical, err := client.CanonicalURL(ctx, ref.URL)
			if err != nil {
				return nil, err
			}
			if ref, err = fediverse.Match(canonical); err != nil {
				return nil, err
			}
		}
		status, err = client.Status(ctx, ref.Host, ref.ID)
	}
	if err != nil {
		return nil, err
	}

	return extract.FromStatus(status)
}

func writePlain(options *Options, result *extract.Result) {
	if options.Describe {
		width, _, err := util.TerminalSize()
		if err != nil || width <= 0 {
			width = 80
		}
		fmt.Fprintln(options.Out, wordwrap.String(result.Title, width))
	}

	if result.Card != nil {
		fmt.Fprintln(options.Out, result.Card.URL)
		return
	}
	for _, media := range result.Media {
		fmt.Fprintln(options.Out, media.URL)
	}
}
