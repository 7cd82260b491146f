// Package download fetches repository files over several transports. A
// Selector picks the transport for a URI and hands back a Downloader; every
// Downloader supports change and size probes and a resumable transfer into a
// destination file.
package download

import (
	"context"
	"net/url"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/peer"
)

// Kind is the closed set of transports a Downloader can use.
type Kind int

// Downloader kinds.
const (
	KindLocalFile Kind = iota
	KindContent
	KindPeer
	KindHTTP
	KindHTTPPost
)

func (k Kind) String() string {
	switch k {
	case KindLocalFile:
		return "file"
	case KindContent:
		return "content"
	case KindPeer:
		return "peer"
	case KindHTTP:
		return "http"
	case KindHTTPPost:
		return "http-post"
	default:
		return "unknown"
	}
}

// URI schemes the Selector dispatches on before falling back to HTTP.
const (
	SchemeBluetooth = peer.SchemeBluetooth
	SchemeContent   = "content"
	SchemeFile      = "file"
)

// PlaceholderLength is the target length used when a server answers 200 but
// gives no usable Content-Length. It is non-zero so an empty local file is
// never taken for a finished download.
const PlaceholderLength int64 = 1024

// Outcome is the terminal state of a Download call that did not fail.
type Outcome int

// Download outcomes.
const (
	OutcomeDownloaded Outcome = iota
	OutcomeResumed
	OutcomeAlreadyComplete
	OutcomeNotFound
	OutcomeUnknownStatus
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeResumed:
		return "resumed"
	case OutcomeAlreadyComplete:
		return "already-complete"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeUnknownStatus:
		return "unknown-status"
	default:
		return "unknown"
	}
}

// Result describes a finished Download.
type Result struct {
	Outcome      Outcome
	BytesWritten int64
	// Path is the destination file. It is empty when nothing was produced.
	Path string
	// StatusCode is set by the HTTP transport for OutcomeUnknownStatus.
	StatusCode int
}

// Fetched reports whether the destination now holds the complete resource.
func (r Result) Fetched() bool {
	switch r.Outcome {
	case OutcomeDownloaded, OutcomeResumed, OutcomeAlreadyComplete:
		return true
	default:
		return false
	}
}

// ProgressFunc receives the bytes present in the destination so far and the
// expected total, or -1 when the total is unknown.
type ProgressFunc func(written, total int64)

// Request is what a Downloader was built for.
type Request struct {
	URI  *url.URL
	Dest string
	// Progress is optional.
	Progress ProgressFunc
}

// Downloader transfers one resource into one destination file. Calls on a
// single Downloader must not overlap; distinct Downloaders may run
// concurrently.
type Downloader interface {
	Kind() Kind
	Request() Request

	// HasChanged reports whether the remote resource is newer than when last
	// probed. Probe failures report false.
	HasChanged(ctx context.Context) bool

	// TotalSize returns the remote length, or -1 when it cannot be probed.
	TotalSize(ctx context.Context) int64

	// Download brings the destination up to date with the remote resource.
	// Terminal states such as "not found" are reported in Result, not as errors.
	Download(ctx context.Context) (Result, error)
}

// ChangeTracker is implemented by downloaders whose HasChanged compares
// against a stored modification time.
type ChangeTracker interface {
	LastModified() time.Time
	SetLastModified(t time.Time)
}
