package transport

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/sirupsen/logrus"
)

// NewClient returns an HTTP client whose connection pool may be shared by
// concurrent downloads. Swap requests never go through a proxy. The timeout
// applies to connecting, to waiting for headers and to each body read.
func NewClient(opts Options) *http.Client {
	dialer := &net.Dialer{
		Timeout:   opts.timeout(),
		KeepAlive: 30 * time.Second,
	}
	base := &http.Transport{
		Proxy:                 ProxyFunc(opts),
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: opts.timeout(),
		TLSHandshakeTimeout:   opts.timeout(),
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		// Bodies are consumed as-is so Content-Length keeps matching the bytes on disk.
		DisableCompression: true,
	}

	var rt http.RoundTripper = base
	if opts.Interceptor != nil {
		rt = opts.Interceptor(rt)
	}
	rt = &idleTimeoutTransport{next: rt, timeout: opts.timeout()}

	return &http.Client{
		Transport: &loggingTransport{next: rt},
	}
}

// ProxyFunc chooses the proxy per request: none for swap peers, the
// configured proxy otherwise, falling back to the environment.
func ProxyFunc(opts Options) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if IsSwapURL(req.URL, opts.Subnet) {
			return nil, nil
		}
		if opts.Proxy != nil {
			return opts.Proxy, nil
		}
		return http.ProxyFromEnvironment(req)
	}
}

type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	fields := logrus.Fields{
		"method":   req.Method,
		"url":      req.URL.Redacted(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.Debug("http request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.Debug("http request", fields)
	return resp, nil
}
