package download

import (
	"context"
	"io"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/peer"
)

// PeerConnector opens a resource on a nearby peer. size is -1 when unknown.
// A missing resource must wrap errors.ErrFileNotFound.
type PeerConnector interface {
	Connect(ctx context.Context, p peer.Descriptor, path string) (io.ReadCloser, int64, error)
}

// PeerDownloader fetches from a peer reached through a PeerConnector.
type PeerDownloader struct {
	req       Request
	connector PeerConnector
}

// NewPeerDownloader builds a peer downloader. connector may be nil, in which
// case every transfer fails with ErrUnsupportedScheme.
func NewPeerDownloader(req Request, connector PeerConnector) *PeerDownloader {
	return &PeerDownloader{req: req, connector: connector}
}

// Kind returns KindPeer.
func (d *PeerDownloader) Kind() Kind { return KindPeer }

// Request returns the request the downloader was built for.
func (d *PeerDownloader) Request() Request { return d.req }

// Peer returns the descriptor encoded in the request URI.
func (d *PeerDownloader) Peer() (peer.Descriptor, error) {
	p, _, err := peer.FromURI(d.req.URI)
	return p, err
}

// HasChanged always reports true; peers expose no freshness data.
func (d *PeerDownloader) HasChanged(context.Context) bool { return true }

// TotalSize connects to learn the length.
func (d *PeerDownloader) TotalSize(ctx context.Context) int64 {
	rc, size, err := d.open(ctx)
	if err != nil {
		return -1
	}
	_ = rc.Close()
	return size
}

// Download copies the whole resource from the peer.
func (d *PeerDownloader) Download(ctx context.Context) (Result, error) {
	rc, size, err := d.open(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		if errors.Is(err, errors.ErrUnsupportedScheme) {
			return Result{}, err
		}
		return Result{}, errors.Transport(err, "peer connection failed")
	}
	defer func() { _ = rc.Close() }()

	written, err := copyStream(ctx, d.req.Dest, rc, false, 0, size, d.req.Progress)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeDownloaded, BytesWritten: written, Path: d.req.Dest}, nil
}

func (d *PeerDownloader) open(ctx context.Context) (io.ReadCloser, int64, error) {
	if d.connector == nil {
		return nil, -1, errors.Wrap(errors.ErrUnsupportedScheme, "no peer transport configured")
	}
	p, path, err := peer.FromURI(d.req.URI)
	if err != nil {
		return nil, -1, err
	}
	return d.connector.Connect(ctx, p, path)
}
