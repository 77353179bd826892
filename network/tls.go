// Package network provides the pre-configured HTTP clients shared by all instance communication.
//
// The spoofed client leverages refraction-networking/utls to emulate Chrome's
// Client Hello signature. Some fediverse instances sit behind anti-bot
// services (Cloudflare, DDoS-Guard) that reject the standard Go TLS
// fingerprint; presenting a browser fingerprint lets those hosts be reached.
//
// Protocol negotiation: an HTTP/2 transport is tried first (preferred by
// modern CDNs) and the request transparently falls back to a forced
// HTTP/1.1 transport when the h2 handshake fails.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const spoofDialTimeout = 30 * time.Second

// SpoofedClient performs requests with a Chrome TLS fingerprint.
// Selected by Instance() when network.tls_spoof is enabled.
var SpoofedClient = &http.Client{
	Timeout:   time.Minute,
	Transport: &spoofedTransport{},
}

// spoofedTransport routes requests through the h2 transport and retries
// once over HTTP/1.1 when the server cannot negotiate h2.
type spoofedTransport struct{}

func (t *spoofedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := getH2Transport().RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}
	return h1Transport.RoundTrip(retry)
}

// h2Transport is a shared HTTP/2 transport for servers that negotiate h2.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			// Custom DialTLSContext provides utls connections
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that negotiate http/1.1.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// With nil nextProtos it advertises both h2 and http/1.1 (natural Chrome
// behavior); passing http/1.1 forces the fallback protocol.
func dialTLS(ctx context.Context, network, addr string, nextProtos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: spoofDialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: nextProtos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
