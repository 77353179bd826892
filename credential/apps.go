package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/filesystem"
	"github.com/fedigrab-cli/fedigrab/log"
	"github.com/fedigrab-cli/fedigrab/network"
	"github.com/fedigrab-cli/fedigrab/where"
	"github.com/metafates/gache"
)

// App is the OAuth client registration returned by an instance.
// One registration per instance host, reused across process invocations.
type App struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// appsCacher persists host -> App registrations to disk.
var appsCacher = gache.New[map[string]*App](
	&gache.Options{
		Path:       where.Apps(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// hostMu hands out one mutex per instance host so concurrent callers for the
// same host never double-register: the second caller blocks until the first
// has stored its result, then reuses it.
var hostMu sync.Map

// scheme is switched to plain http by tests running against httptest servers.
var scheme = "https"

// GetOrRegister returns the OAuth application credential for an instance,
// registering a new application on first use. Idempotent per host.
func GetOrRegister(ctx context.Context, instanceHost string) (*App, error) {
	mu, _ := hostMu.LoadOrStore(instanceHost, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	apps, expired, err := appsCacher.Get()
	if err != nil {
		return nil, fmt.Errorf("load app registry: %w", err)
	}
	if expired || apps == nil {
		apps = make(map[string]*App)
	}

	if app, ok := apps[instanceHost]; ok {
		return app, nil
	}

	log.Infof("registering OAuth application on %s", instanceHost)
	app, err := register(ctx, instanceHost)
	if err != nil {
		return nil, err
	}

	apps[instanceHost] = app
	if err := appsCacher.Set(apps); err != nil {
		return nil, fmt.Errorf("persist app registry: %w", err)
	}
	return app, nil
}

// register performs the one-time application registration POST.
func register(ctx context.Context, instanceHost string) (*App, error) {
	body, err := json.Marshal(map[string]string{
		"client_name":   constant.OAuthClientName,
		"redirect_uris": constant.OAuthRedirectURI,
		"scopes":        constant.OAuthScope,
		"website":       constant.OAuthClientSite,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s://%s/api/v1/apps", scheme, instanceHost)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: app registration: %w", instanceHost, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: app registration returned %d: %s", instanceHost, resp.StatusCode, msg)
	}

	var app App
	if err := json.NewDecoder(resp.Body).Decode(&app); err != nil {
		return nil, fmt.Errorf("%s: decode app registration: %w", instanceHost, err)
	}

	if app.ClientID == "" || app.ClientSecret == "" {
		return nil, fmt.Errorf("%s: app registration returned empty client credentials", instanceHost)
	}
	return &app, nil
}
