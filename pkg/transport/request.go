package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/glorpus-work/droidrepo/pkg/auth"
	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// NewRequest builds a request for u following the repository header rules.
// authenticator may be nil for anonymous requests.
func NewRequest(ctx context.Context, method string, u *url.URL, body io.Reader, opts Options, authenticator auth.Authenticator) (*http.Request, error) {
	if u == nil {
		return nil, errors.Wrap(errors.ErrRepositoryURL, "nil URL")
	}
	if body == nil {
		body = http.NoBody
	}

	target := *u
	swap := IsSwapURL(u, opts.Subnet)
	if !swap && opts.QueryString != "" {
		if target.RawQuery == "" {
			target.RawQuery = opts.QueryString
		} else {
			target.RawQuery += "&" + opts.QueryString
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	if swap {
		// unrouted peer on the same subnet; keep-alive only holds its socket open
		req.Header.Set("Connection", "close")
		req.Close = true
	}

	req.Header.Set("User-Agent", opts.userAgent())

	if opts.LegacyIdentityEncoding {
		req.Header.Set("Accept-Encoding", "identity")
	}

	if authenticator != nil {
		if err := authenticator.Apply(req); err != nil {
			return nil, errors.Wrap(err, "failed to apply authentication")
		}
	}

	return req, nil
}
