package download

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/auth"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/transport"
)

// HTTPDownloader fetches from HTTP(S) repositories with HEAD probes and
// ranged resume.
type HTTPDownloader struct {
	req    Request
	client *http.Client
	opts   transport.Options
	auth   auth.Authenticator

	mu           sync.Mutex
	lastModified time.Time
	targetLength int64
	placeholder  bool
}

// NewHTTPDownloader builds an HTTP downloader. authenticator may be nil.
// client is expected to come from transport.NewClient(opts) and may be shared.
func NewHTTPDownloader(req Request, client *http.Client, opts transport.Options, authenticator auth.Authenticator) *HTTPDownloader {
	if authenticator == nil {
		authenticator = auth.Anonymous{}
	}
	return &HTTPDownloader{
		req:          req,
		client:       client,
		opts:         opts,
		auth:         authenticator,
		targetLength: -1,
	}
}

// Kind returns KindHTTP.
func (d *HTTPDownloader) Kind() Kind { return KindHTTP }

// Request returns the request the downloader was built for.
func (d *HTTPDownloader) Request() Request { return d.req }

// LastModified returns the newest Last-Modified seen by HasChanged.
func (d *HTTPDownloader) LastModified() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastModified
}

// SetLastModified seeds the timestamp HasChanged compares against, e.g. from
// a previous sync.
func (d *HTTPDownloader) SetLastModified(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastModified = t
}

// HasChanged probes Last-Modified and reports whether it is strictly newer
// than the last recorded value, recording it if so.
func (d *HTTPDownloader) HasChanged(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.head(ctx)
	if err != nil {
		logger.Debug("change probe failed", d.fields(logrus.Fields{"error": err.Error()}))
		return false
	}
	_ = resp.Body.Close()

	header := resp.Header.Get("Last-Modified")
	if header == "" {
		logger.Debug("no Last-Modified header", d.fields(nil))
		return false
	}
	modified, err := http.ParseTime(header)
	if err != nil {
		logger.Debug("unparseable Last-Modified header", d.fields(logrus.Fields{"value": header}))
		return false
	}
	if !modified.After(d.lastModified) {
		return false
	}
	d.lastModified = modified
	return true
}

// TotalSize probes Content-Length. It returns -1 when the probe fails or the
// server does not report a length.
func (d *HTTPDownloader) TotalSize(ctx context.Context) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.head(ctx)
	if err != nil {
		logger.Debug("size probe failed", d.fields(logrus.Fields{"error": err.Error()}))
		return -1
	}
	_ = resp.Body.Close()
	return resp.ContentLength
}

// Download probes the resource, then transfers only what the destination
// is missing.
func (d *HTTPDownloader) Download(ctx context.Context) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dest := d.req.Dest
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Interrupted(err)
	}

	resp, err := d.head(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, errors.Interrupted(ctxErr)
		}
		return Result{}, errors.Transport(err, "probe failed")
	}
	_ = resp.Body.Close()

	target := resp.ContentLength
	d.placeholder = false
	switch resp.StatusCode {
	case http.StatusOK:
		if target <= 0 {
			target = PlaceholderLength
			d.placeholder = true
		}
	case http.StatusNotFound:
		logger.Debug("remote file not found", d.fields(nil))
		return Result{Outcome: OutcomeNotFound}, nil
	default:
		logger.Warn("unexpected probe status, not transferring", d.fields(logrus.Fields{"status": resp.StatusCode}))
		return Result{Outcome: OutcomeUnknownStatus, StatusCode: resp.StatusCode}, nil
	}
	d.targetLength = target

	local, regular := fsutil.LocalLength(dest)
	resume := false
	switch {
	case local > target:
		logger.Debug("local file longer than remote, discarding", d.fields(logrus.Fields{"local": local, "remote": target}))
		fsutil.RemoveQuietly(dest)
		local = 0
	case local == target && regular:
		logger.Debug("local file complete, skipping transfer", d.fields(logrus.Fields{"length": local}))
		return Result{Outcome: OutcomeAlreadyComplete, Path: dest}, nil
	case local > 0:
		resume = true
	}

	return d.fetch(ctx, resume, local)
}

func (d *HTTPDownloader) fetch(ctx context.Context, resume bool, offset int64) (Result, error) {
	req, err := transport.NewRequest(ctx, http.MethodGet, d.req.URI, nil, d.opts, d.auth)
	if err != nil {
		return Result{}, errors.Transport(err, "failed to build request")
	}
	if resume {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, errors.Interrupted(ctxErr)
		}
		return Result{}, errors.Transport(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusOK:
		if resume {
			logger.Debug("server ignored range, restarting", d.fields(logrus.Fields{"offset": offset}))
			resume = false
		}
	case http.StatusNotFound:
		return Result{Outcome: OutcomeNotFound}, nil
	default:
		return Result{}, errors.Transport(fmt.Errorf("unexpected status %d", resp.StatusCode), "download failed")
	}

	total := d.targetLength
	if d.placeholder {
		total = -1
		if !resume && resp.ContentLength > 0 {
			total = resp.ContentLength
		}
	}

	body := bufio.NewReaderSize(resp.Body, chunkSize)
	written, err := copyStream(ctx, d.req.Dest, body, resume, offset, total, d.req.Progress)
	if err != nil {
		return Result{}, err
	}

	outcome := OutcomeDownloaded
	if resume {
		outcome = OutcomeResumed
	}
	logger.Debug("download finished", d.fields(logrus.Fields{"bytes": written, "outcome": outcome.String()}))
	return Result{Outcome: outcome, BytesWritten: written, Path: d.req.Dest}, nil
}

// head issues a HEAD request. The caller closes the body.
func (d *HTTPDownloader) head(ctx context.Context) (*http.Response, error) {
	req, err := transport.NewRequest(ctx, http.MethodHead, d.req.URI, nil, d.opts, d.auth)
	if err != nil {
		return nil, err
	}
	return d.client.Do(req)
}

func (d *HTTPDownloader) fields(extra logrus.Fields) logrus.Fields {
	f := logrus.Fields{"url": d.req.URI.Redacted(), "dest": d.req.Dest}
	for k, v := range extra {
		f[k] = v
	}
	return f
}
