package download

import (
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/auth"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/peer"
	"github.com/glorpus-work/droidrepo/pkg/transport"
)

//go:generate mockgen -destination=./mocks/download.go -package=mocks . CredentialStore,ContentResolver,PeerConnector

// CredentialStore finds the credential of the repository serving u. found is
// false when no repository matches; a matching repository may still carry
// an empty credential.
type CredentialStore interface {
	FindByURL(u *url.URL) (cred auth.BasicAuth, found bool)
}

// Selector maps URIs to Downloaders. It owns the HTTP client, so every HTTP
// downloader it creates shares one connection pool.
type Selector struct {
	client      *http.Client
	opts        transport.Options
	tempDir     string
	credentials CredentialStore
	content     ContentResolver
	peers       PeerConnector
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithCredentials sets the repository credential store.
func WithCredentials(store CredentialStore) SelectorOption {
	return func(s *Selector) { s.credentials = store }
}

// WithContentResolver sets the resolver used for content:// URIs.
func WithContentResolver(r ContentResolver) SelectorOption {
	return func(s *Selector) { s.content = r }
}

// WithPeerConnector sets the connector used for bluetooth:// URIs.
func WithPeerConnector(c PeerConnector) SelectorOption {
	return func(s *Selector) { s.peers = c }
}

// WithHTTPClient replaces the client built from the transport options.
func WithHTTPClient(c *http.Client) SelectorOption {
	return func(s *Selector) { s.client = c }
}

// NewSelector creates a Selector. tempDir receives files allocated by
// SelectTemp.
func NewSelector(opts transport.Options, tempDir string, options ...SelectorOption) *Selector {
	s := &Selector{
		opts:    opts,
		tempDir: tempDir,
	}
	for _, o := range options {
		o(s)
	}
	if s.client == nil {
		s.client = transport.NewClient(opts)
	}
	return s
}

// RequestOption adjusts the Request handed to a Downloader.
type RequestOption func(*Request)

// WithProgress reports transfer progress to fn.
func WithProgress(fn ProgressFunc) RequestOption {
	return func(r *Request) { r.Progress = fn }
}

// Select returns the Downloader for uri writing to dest. Precedence is
// bluetooth, then content, then file, then http and https. Any other scheme
// is rejected with ErrUnsupportedScheme instead of reaching the HTTP
// transport.
func (s *Selector) Select(uri *url.URL, dest string, options ...RequestOption) (Downloader, error) {
	if uri == nil {
		return nil, errors.Wrap(errors.ErrRepositoryURL, "nil URI")
	}
	if dest == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "destination path is empty")
	}
	if err := fsutil.EnsureFileDir(dest); err != nil {
		return nil, errors.Wrapf(errors.ErrConfiguration, "cannot create destination directory: %v", err)
	}

	req := Request{URI: uri, Dest: dest}
	for _, o := range options {
		o(&req)
	}

	switch uri.Scheme {
	case SchemeBluetooth:
		if _, _, err := peer.FromURI(uri); err != nil {
			return nil, err
		}
		return NewPeerDownloader(req, s.peers), nil
	case SchemeContent:
		return NewContentDownloader(req, s.content), nil
	case SchemeFile:
		return NewLocalFileDownloader(req), nil
	}

	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, errors.Wrapf(errors.ErrUnsupportedScheme, "%q", uri.Scheme)
	}
	cred, found := s.lookup(uri)
	logger.Debug("selected http downloader", logrus.Fields{
		"url":           uri.Redacted(),
		"dest":          dest,
		"authenticated": found && cred.Present(),
	})
	if !found {
		return NewHTTPDownloader(req, s.client, s.opts, nil), nil
	}
	return NewHTTPDownloader(req, s.client, s.opts, cred), nil
}

// SelectTemp allocates a "dl-" temp file in the selector's temp directory and
// selects a Downloader for rawURL into it. The temp file is not removed
// automatically; see cache.DefaultManager.CleanDownloads.
func (s *Selector) SelectTemp(rawURL string, options ...RequestOption) (Downloader, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRepositoryURL, "%s: %v", rawURL, err)
	}
	dest, err := fsutil.CreateTempFile(s.tempDir, fsutil.TempDownloadPrefix)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrConfiguration, "cannot create temp file: %v", err)
	}
	return s.Select(uri, dest, options...)
}

// SelectPoster returns a JSON poster for rawURL, authenticated when a
// credential matches.
func (s *Selector) SelectPoster(rawURL string) (*HTTPPoster, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRepositoryURL, "%s: %v", rawURL, err)
	}
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, errors.Wrapf(errors.ErrUnsupportedScheme, "%q", uri.Scheme)
	}
	cred, found := s.lookup(uri)
	if !found {
		return NewHTTPPoster(uri, s.client, s.opts, nil), nil
	}
	return NewHTTPPoster(uri, s.client, s.opts, cred), nil
}

func (s *Selector) lookup(uri *url.URL) (auth.BasicAuth, bool) {
	if s.credentials == nil {
		return auth.BasicAuth{}, false
	}
	return s.credentials.FindByURL(uri)
}
