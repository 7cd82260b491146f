package download

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// ContentResolver opens content:// URIs. Open returns the stream and its
// length, or -1 when unknown. A missing resource must wrap
// errors.ErrFileNotFound.
type ContentResolver interface {
	Open(ctx context.Context, uri *url.URL) (io.ReadCloser, int64, error)
}

// TreeResolver serves content://<authority>/<path> from Root/<authority>/<path>,
// e.g. a mounted removable drive holding a repository mirror.
type TreeResolver struct {
	Root string
}

// Open implements ContentResolver.
func (r TreeResolver) Open(_ context.Context, uri *url.URL) (io.ReadCloser, int64, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(uri.Path, "/"))
	full := filepath.Join(r.Root, uri.Host, rel)
	root := filepath.Join(r.Root, uri.Host)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return nil, -1, errors.Wrapf(errors.ErrInvalidPath, "%s escapes %s", uri.Path, root)
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, -1, errors.Wrap(errors.ErrFileNotFound, full)
		}
		return nil, -1, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, -1, err
	}
	return f, info.Size(), nil
}

// ContentDownloader reads content:// URIs through a ContentResolver.
type ContentDownloader struct {
	req      Request
	resolver ContentResolver
}

// NewContentDownloader builds a content downloader. resolver may be nil, in
// which case every transfer fails with ErrUnsupportedScheme.
func NewContentDownloader(req Request, resolver ContentResolver) *ContentDownloader {
	return &ContentDownloader{req: req, resolver: resolver}
}

// Kind returns KindContent.
func (d *ContentDownloader) Kind() Kind { return KindContent }

// Request returns the request the downloader was built for.
func (d *ContentDownloader) Request() Request { return d.req }

// HasChanged always reports true; content providers expose no freshness data.
func (d *ContentDownloader) HasChanged(context.Context) bool { return true }

// TotalSize opens the resource to learn its length.
func (d *ContentDownloader) TotalSize(ctx context.Context) int64 {
	rc, size, err := d.open(ctx)
	if err != nil {
		return -1
	}
	_ = rc.Close()
	return size
}

// Download copies the whole resource.
func (d *ContentDownloader) Download(ctx context.Context) (Result, error) {
	rc, size, err := d.open(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		if errors.Is(err, errors.ErrUnsupportedScheme) {
			return Result{}, err
		}
		return Result{}, errors.Transport(err, "cannot open content")
	}
	defer func() { _ = rc.Close() }()

	written, err := copyStream(ctx, d.req.Dest, rc, false, 0, size, d.req.Progress)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeDownloaded, BytesWritten: written, Path: d.req.Dest}, nil
}

func (d *ContentDownloader) open(ctx context.Context) (io.ReadCloser, int64, error) {
	if d.resolver == nil {
		return nil, -1, errors.Wrap(errors.ErrUnsupportedScheme, "no content resolver configured")
	}
	return d.resolver.Open(ctx, d.req.URI)
}
