package instance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/key"
	"github.com/fedigrab-cli/fedigrab/log"
	"github.com/fedigrab-cli/fedigrab/network"
	"github.com/spf13/viper"
)

// ErrUnknownSoftware indicates detection exhausted every signal for a host.
// Fatal to the one extraction, not to the batch.
var ErrUnknownSoftware = errors.New("unknown instance software")

// fingerprint associates a literal page marker with exactly one software family.
type fingerprint struct {
	marker string
	kind   Kind
}

// fingerprints are checked in order; each marker appears in the served pages
// of exactly one family. Page scanning is cheaper and more specific than a
// NodeInfo probe, so it always runs first when a body is available.
var fingerprints = []fingerprint{
	{`,"settings":{"known_fediverse":`, Mastodon},
	{`<li><a href="https://docs.joinmastodon.org/">Documentation</a></li>`, Mastodon},
	{`<title>Pleroma</title>`, Pleroma},
	{`<noscript>To use Pleroma, please enable JavaScript.</noscript>`, Pleroma},
	{`<noscript>To use Soapbox, please enable JavaScript.</noscript>`, Pleroma},
	{`Alternatively, try one of the <a href="https://apps.gab.com">native apps</a> for Gab Social for your platform.`, GabSocial},
	{`<title>PeerTube<`, PeerTube},
	{`There will be other non JS-based clients to access PeerTube`, PeerTube},
	{`>We are sorry but it seems that PeerTube is not compatible with your web browser.<`, PeerTube},
	{`<meta property="og:platform" content="PeerTube"`, PeerTube},
}

// Detect determines which software family a host runs.
//
// Precedence: literal page fingerprints when a body was already fetched for
// another purpose, then the NodeInfo discovery endpoint (only when
// instances.probe_unknown enables network probing). A successful detection
// is recorded in the learned set for the remainder of the process.
func Detect(ctx context.Context, host, pageBody string) (Kind, error) {
	if pageBody != "" {
		for _, fp := range fingerprints {
			if strings.Contains(pageBody, fp.marker) {
				log.Infof("host %s fingerprinted as %s", host, fp.kind)
				Learn(host, fp.kind)
				return fp.kind, nil
			}
		}
	}

	if viper.GetBool(key.InstancesProbeUnknown) {
		kind, err := probeNodeInfo(ctx, host)
		if err != nil {
			log.Warnf("nodeinfo probe for %s failed: %v", host, err)
		} else if kind != Unknown {
			Learn(host, kind)
			return kind, nil
		}
	}

	if closest := Closest(host); closest != "" {
		return Unknown, fmt.Errorf("%s: %w (closest known instance: %s)", host, ErrUnknownSoftware, closest)
	}
	return Unknown, fmt.Errorf("%s: %w", host, ErrUnknownSoftware)
}

// nodeInfoIndex is the well-known discovery document listing schema links.
type nodeInfoIndex struct {
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

// nodeInfo is the subset of the NodeInfo schema detection cares about.
type nodeInfo struct {
	Software struct {
		Name string `json:"name"`
	} `json:"software"`
}

// scheme is switched to plain http by tests running against httptest servers.
var scheme = "https"

// probeNodeInfo fetches the host's NodeInfo document and maps its software
// name through the fixed family table.
func probeNodeInfo(ctx context.Context, host string) (Kind, error) {
	var index nodeInfoIndex
	if err := getJSON(ctx, fmt.Sprintf("%s://%s/.well-known/nodeinfo", scheme, host), &index); err != nil {
		return Unknown, err
	}

	if len(index.Links) == 0 {
		return Unknown, fmt.Errorf("%s: empty nodeinfo index", host)
	}

	var info nodeInfo
	if err := getJSON(ctx, index.Links[0].Href, &info); err != nil {
		return Unknown, err
	}

	kind, ok := ParseKind(strings.ToLower(info.Software.Name))
	if !ok {
		return Unknown, fmt.Errorf("%s: unsupported software %q", host, info.Software.Name)
	}

	log.Infof("host %s reports software %q via nodeinfo", host, info.Software.Name)
	return kind, nil
}

func getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
