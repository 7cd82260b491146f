package config

import (
	"net/url"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/transport"
)

// TransportOptions converts the network settings into transport options.
// The query string stays scoped to the returned value.
func (c *Config) TransportOptions() (transport.Options, error) {
	subnet, err := c.Settings.parseSubnet()
	if err != nil {
		return transport.Options{}, err
	}
	proxy, err := c.Settings.parseProxy()
	if err != nil {
		return transport.Options{}, err
	}
	return transport.Options{
		Timeout:                c.Settings.HTTPTimeout,
		UserAgent:              c.Settings.UserAgent,
		Proxy:                  proxy,
		Subnet:                 subnet,
		QueryString:            c.Settings.QueryString,
		LegacyIdentityEncoding: c.Settings.LegacyIdentityEncoding,
	}, nil
}

func (s Settings) parseSubnet() (transport.Subnet, error) {
	return transport.ParseSubnet(s.SwapSubnet)
}

func (s Settings) parseProxy() (*url.URL, error) {
	if s.ProxyURL == "" {
		return nil, nil
	}
	u, err := url.Parse(s.ProxyURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidProxyURL, "%q", s.ProxyURL)
	}
	return u, nil
}
