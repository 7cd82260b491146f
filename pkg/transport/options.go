// Package transport builds the HTTP client and requests used to talk to
// repositories, including the rules for local swap peers.
package transport

import (
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds connecting, waiting for response headers and
	// each stalled body read.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent when Options.UserAgent is empty.
	DefaultUserAgent = "droidrepo/1.0"
)

// Options configure one sync session's transport. The zero value is usable.
type Options struct {
	// Timeout applies to connecting, to waiting for response headers and to
	// every body read that receives no data.
	Timeout time.Duration

	// UserAgent is the client identifier sent on every request.
	UserAgent string

	// Proxy, when set, is used for every request that is not a swap request.
	// When nil, the proxy from the environment is used.
	Proxy *url.URL

	// Subnet is the device's local network, used for swap detection.
	Subnet Subnet

	// QueryString is appended to every non-swap request URL. It is scoped to
	// the session that owns these Options.
	QueryString string

	// LegacyIdentityEncoding forces "Accept-Encoding: identity" for runtimes
	// that mishandle compressed bodies.
	LegacyIdentityEncoding bool

	// Interceptor wraps the base round tripper, e.g. for circumvention
	// transports. It must be safe for concurrent use.
	Interceptor func(next http.RoundTripper) http.RoundTripper
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) userAgent() string {
	if o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}
