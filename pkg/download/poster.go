package download

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/auth"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/transport"
)

// JSONContentType is sent with every HTTPPoster body.
const JSONContentType = "application/json; charset=utf-8"

// HTTPPoster submits JSON documents to a repository endpoint using the same
// header rules as HTTPDownloader. It has no destination file.
type HTTPPoster struct {
	uri    *url.URL
	client *http.Client
	opts   transport.Options
	auth   auth.Authenticator
}

// NewHTTPPoster builds a poster for uri. authenticator may be nil.
func NewHTTPPoster(uri *url.URL, client *http.Client, opts transport.Options, authenticator auth.Authenticator) *HTTPPoster {
	if authenticator == nil {
		authenticator = auth.Anonymous{}
	}
	return &HTTPPoster{uri: uri, client: client, opts: opts, auth: authenticator}
}

// Kind returns KindHTTPPost.
func (p *HTTPPoster) Kind() Kind { return KindHTTPPost }

// Post sends body and returns the response status code.
func (p *HTTPPoster) Post(ctx context.Context, body []byte) (int, error) {
	req, err := transport.NewRequest(ctx, http.MethodPost, p.uri, bytes.NewReader(body), p.opts, p.auth)
	if err != nil {
		return 0, errors.Transport(err, "failed to build request")
	}
	req.Header.Set("Content-Type", JSONContentType)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, errors.Interrupted(ctxErr)
		}
		return 0, errors.Transport(err, "post failed")
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("post response", logrus.Fields{"url": p.uri.Redacted(), "status": resp.StatusCode})
	return resp.StatusCode, nil
}
