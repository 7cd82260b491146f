//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . DownloaderFactory,SignatureVerifier,Installer,PackageResolver

package orchestrator

import (
	"context"
	"net/url"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/signature"
)

// DownloaderFactory is the subset of download.Selector used by the
// orchestrator.
type DownloaderFactory interface {
	Select(uri *url.URL, dest string, options ...download.RequestOption) (download.Downloader, error)
}

// SignatureVerifier checks a downloaded package against the trusted signer.
type SignatureVerifier interface {
	Verify(path string) (signature.Verification, error)
}

// Installer hands a verified package to the platform.
type Installer interface {
	Install(ctx context.Context, path string, diff *appdiff.Diff) error
}

// PackageResolver is the subset of the index manager used by Prepare.
type PackageResolver interface {
	ResolvePackage(name, versionConstraint string) (*index.Resolution, error)
}

// Orchestrator ties the selector, verifier, inspector and installer together.
type Orchestrator struct {
	Selector  DownloaderFactory
	Verifier  SignatureVerifier
	Inspector inspector.Inspector
	Installer Installer
	Index     PackageResolver
	Hooks     Hooks // Hooks for progress and event notifications
}

// Phase names the step an Event reports on.
type Phase string

// Event phases.
const (
	PhaseSyncing     Phase = "syncing"
	PhaseResolving   Phase = "resolving"
	PhaseDownloading Phase = "downloading"
	PhaseVerifying   Phase = "verifying"
	PhaseInstalling  Phase = "installing"
	PhaseSkipped     Phase = "skipped"
	PhaseDone        Phase = "done"
	PhaseError       Phase = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase   Phase
	Session string // sync session ID, empty outside SyncAll
	ID      string // repository or package name
	Msg     string
}

// Hooks carries callbacks for progress events. OnEvent may be called from
// several goroutines during SyncAll.
type Hooks struct {
	OnEvent func(Event)
}

// Options control SyncAll.
type Options struct {
	Concurrency int
	// Force skips the change probe and always transfers.
	Force bool
}

// SyncResult is the outcome of synchronizing one repository index.
type SyncResult struct {
	Repository string
	Path       string
	Outcome    download.Outcome
	// Changed is false when the change probe found nothing newer.
	Changed bool
	Err     error
}

// FetchOptions control FetchAndVerify.
type FetchOptions struct {
	// Dest is the file the package is downloaded into.
	Dest string
	// SHA256 is checked before signature verification when set.
	SHA256   string
	Progress download.ProgressFunc
}

// InstallDecision is everything needed to decide on an install.
type InstallDecision struct {
	Path         string
	Diff         *appdiff.Diff
	Verification signature.Verification
	SignatureOK  bool
}
