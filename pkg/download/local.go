package download

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// LocalFileDownloader copies a file:// resource into the destination.
type LocalFileDownloader struct {
	req Request

	mu       sync.Mutex
	lastSeen time.Time
}

// NewLocalFileDownloader builds a downloader for a file:// request.
func NewLocalFileDownloader(req Request) *LocalFileDownloader {
	return &LocalFileDownloader{req: req}
}

// Kind returns KindLocalFile.
func (d *LocalFileDownloader) Kind() Kind { return KindLocalFile }

// Request returns the request the downloader was built for.
func (d *LocalFileDownloader) Request() Request { return d.req }

func (d *LocalFileDownloader) source() string {
	return filepath.FromSlash(d.req.URI.Path)
}

// LastModified returns the newest source modification time seen by HasChanged.
func (d *LocalFileDownloader) LastModified() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen
}

// SetLastModified seeds the time HasChanged compares against.
func (d *LocalFileDownloader) SetLastModified(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSeen = t
}

// HasChanged compares the source modification time with the last one seen.
func (d *LocalFileDownloader) HasChanged(context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := os.Stat(d.source())
	if err != nil {
		return false
	}
	if !info.ModTime().After(d.lastSeen) {
		return false
	}
	d.lastSeen = info.ModTime()
	return true
}

// TotalSize returns the source size, or -1 when it cannot be read.
func (d *LocalFileDownloader) TotalSize(context.Context) int64 {
	info, err := os.Stat(d.source())
	if err != nil || !info.Mode().IsRegular() {
		return -1
	}
	return info.Size()
}

// Download copies the whole source. A missing source is OutcomeNotFound.
func (d *LocalFileDownloader) Download(ctx context.Context) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	src, err := os.Open(d.source())
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		return Result{}, errors.Transport(err, "cannot open source")
	}
	defer func() { _ = src.Close() }()

	total := int64(-1)
	if info, err := src.Stat(); err == nil {
		total = info.Size()
	}

	written, err := copyStream(ctx, d.req.Dest, src, false, 0, total, d.req.Progress)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeDownloaded, BytesWritten: written, Path: d.req.Dest}, nil
}
