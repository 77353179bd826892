// Package network provides the pre-configured HTTP clients shared by all instance communication.
package network

import (
	"net/http"
	"time"

	"github.com/fedigrab-cli/fedigrab/key"
	"github.com/spf13/viper"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and reasonable timeouts tailored for API workflows.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// NoRedirectClient mirrors Client but never follows redirects.
// Permalink canonicalization reads the redirect target out of the Location
// header instead of following it.
var NoRedirectClient = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// Instance returns the client used for fediverse instance traffic.
// With network.tls_spoof enabled it presents a browser TLS fingerprint,
// which some instances behind anti-bot CDNs require.
func Instance() *http.Client {
	if viper.GetBool(key.NetworkTLSSpoof) {
		return SpoofedClient
	}
	return Client
}
