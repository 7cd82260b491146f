package orchestrator

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// SyncAll downloads the index files of repos into indexDir as <name>.json.
// The caller decides which repositories to pass. A repository whose index is
// already present is only transferred again when the change probe reports a
// newer remote. Failures of single repositories are collected in the results
// and joined into the returned error; cancellation aborts the whole session.
func (o *Orchestrator) SyncAll(ctx context.Context, repos []*index.Repository, indexDir string, opts Options) ([]SyncResult, error) {
	if o.Selector == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "downloader factory is not configured")
	}

	session := uuid.NewString()
	log := logrus.Fields{"session": session, "repositories": len(repos)}
	logger.Debug("Starting sync session", log)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]SyncResult, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, repo := range repos {
		if repo == nil || repo.URL == nil {
			continue
		}
		g.Go(func() error {
			res := o.syncOne(gctx, session, repo, indexDir, opts)
			results[i] = res
			if errors.Is(res.Err, errors.ErrInterrupted) {
				return res.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var failures []error
	out := results[:0]
	for _, r := range results {
		if r.Repository == "" {
			continue
		}
		if r.Err != nil {
			failures = append(failures, errors.Wrapf(r.Err, "repository %s", r.Repository))
		}
		out = append(out, r)
	}
	emit(o.Hooks, Event{Phase: PhaseDone, Session: session})
	return out, errors.Join(failures...)
}

func (o *Orchestrator) syncOne(ctx context.Context, session string, repo *index.Repository, indexDir string, opts Options) SyncResult {
	dest := filepath.Join(indexDir, repo.Name+".json")
	res := SyncResult{Repository: repo.Name, Path: dest}
	fields := logrus.Fields{"session": session, "repository": repo.Name}

	// The previous index stays in place until a complete replacement exists.
	part, err := fsutil.CreateTempFile(indexDir, repo.Name+".part-")
	if err != nil {
		res.Err = errors.Wrapf(errors.ErrConfiguration, "allocating index download: %v", err)
		emit(o.Hooks, Event{Phase: PhaseError, Session: session, ID: repo.Name, Msg: res.Err.Error()})
		return res
	}
	defer fsutil.RemoveQuietly(part)

	d, err := o.Selector.Select(repo.IndexURL(), part)
	if err != nil {
		res.Err = err
		emit(o.Hooks, Event{Phase: PhaseError, Session: session, ID: repo.Name, Msg: err.Error()})
		return res
	}

	tracker, tracks := d.(download.ChangeTracker)
	stat, statErr := os.Stat(dest)
	exists := statErr == nil
	if tracks && exists && !opts.Force {
		tracker.SetLastModified(stat.ModTime())
	}
	// Also records the remote modification time for the local copy.
	changed := d.HasChanged(ctx)
	if exists && !changed && !opts.Force {
		res.Outcome = download.OutcomeAlreadyComplete
		logger.Debug("Index unchanged", fields)
		emit(o.Hooks, Event{Phase: PhaseSkipped, Session: session, ID: repo.Name, Msg: "unchanged"})
		return res
	}

	emit(o.Hooks, Event{Phase: PhaseSyncing, Session: session, ID: repo.Name, Msg: repo.IndexURL().Redacted()})
	result, err := d.Download(ctx)
	if err != nil {
		res.Err = err
		emit(o.Hooks, Event{Phase: PhaseError, Session: session, ID: repo.Name, Msg: err.Error()})
		return res
	}

	res.Outcome = result.Outcome
	switch result.Outcome {
	case download.OutcomeNotFound:
		logger.Warn("Repository has no index", fields)
	case download.OutcomeUnknownStatus:
		logger.Warn("Repository answered with an unexpected status", logrus.Fields{
			"session": session, "repository": repo.Name, "status": result.StatusCode,
		})
	default:
		if err := fsutil.Move(part, dest); err != nil {
			res.Err = errors.Wrapf(errors.ErrConfiguration, "replacing index %s: %v", dest, err)
			emit(o.Hooks, Event{Phase: PhaseError, Session: session, ID: repo.Name, Msg: res.Err.Error()})
			return res
		}
		res.Changed = true
		if tracks {
			if lm := tracker.LastModified(); !lm.IsZero() {
				_ = os.Chtimes(dest, lm, lm)
			}
		}
		logger.Debug("Index synchronized", fields)
	}
	emit(o.Hooks, Event{Phase: PhaseDone, Session: session, ID: repo.Name, Msg: result.Outcome.String()})
	return res
}

// FetchAndVerify downloads pkgURL into opts.Dest, checks the optional
// checksum and the signature, and classifies the package against the
// installed applications. A signature mismatch is reported in the decision,
// not as an error.
func (o *Orchestrator) FetchAndVerify(ctx context.Context, pkgURL *url.URL, opts FetchOptions) (*InstallDecision, error) {
	if o.Selector == nil || o.Verifier == nil || o.Inspector == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "orchestrator is missing a collaborator")
	}
	if opts.Dest == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "no destination for package")
	}

	var reqOpts []download.RequestOption
	if opts.Progress != nil {
		reqOpts = append(reqOpts, download.WithProgress(opts.Progress))
	}
	d, err := o.Selector.Select(pkgURL, opts.Dest, reqOpts...)
	if err != nil {
		return nil, err
	}

	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: pkgURL.Redacted()})
	result, err := d.Download(ctx)
	if err != nil {
		return nil, err
	}
	if !result.Fetched() {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s: %s", pkgURL.Redacted(), result.Outcome)
	}

	if opts.SHA256 != "" {
		ok, err := download.VerifySHA256(opts.Dest, opts.SHA256)
		if err != nil {
			return nil, err
		}
		if !ok {
			_ = os.Remove(opts.Dest)
			return nil, errors.Wrapf(errors.ErrMalformedPackage, "checksum mismatch for %s", pkgURL.Redacted())
		}
	}

	emit(o.Hooks, Event{Phase: PhaseVerifying, ID: opts.Dest})
	verification, err := o.Verifier.Verify(opts.Dest)
	if err != nil {
		return nil, err
	}

	diff, err := appdiff.New(o.Inspector, &url.URL{Scheme: "file", Path: opts.Dest})
	if err != nil {
		return nil, err
	}

	return &InstallDecision{
		Path:         opts.Dest,
		Diff:         diff,
		Verification: verification,
		SignatureOK:  verification.Match,
	}, nil
}

// Prepare resolves name through the index, downloads the chosen build into
// packageDir and verifies it.
func (o *Orchestrator) Prepare(ctx context.Context, name, versionConstraint, packageDir string, progress download.ProgressFunc) (*InstallDecision, error) {
	if o.Index == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "index is not configured")
	}

	emit(o.Hooks, Event{Phase: PhaseResolving, ID: name, Msg: versionConstraint})
	res, err := o.Index.ResolvePackage(name, versionConstraint)
	if err != nil {
		return nil, err
	}
	if res.URL == nil {
		return nil, errors.Wrapf(errors.ErrRepositoryURL, "repository %s", res.Repository.Name)
	}

	return o.FetchAndVerify(ctx, res.URL, FetchOptions{
		Dest:     filepath.Join(packageDir, filepath.Base(res.Package.APKName)),
		SHA256:   res.Package.Hash,
		Progress: progress,
	})
}

// Install hands a positive decision to the installer. A failed signature
// check always blocks.
func (o *Orchestrator) Install(ctx context.Context, decision *InstallDecision) error {
	if decision == nil || decision.Diff == nil {
		return errors.Wrap(errors.ErrConfiguration, "no install decision")
	}
	name := decision.Diff.Package().PackageName
	if !decision.SignatureOK {
		emit(o.Hooks, Event{Phase: PhaseError, ID: name, Msg: "signature mismatch"})
		return errors.Wrapf(errors.ErrSignatureMismatch, "%s (candidate %s)", name, shortHex(decision.Verification.CandidateHex))
	}
	if o.Installer == nil {
		return errors.Wrap(errors.ErrConfiguration, "installer is not configured")
	}

	emit(o.Hooks, Event{Phase: PhaseInstalling, ID: name, Msg: decision.Diff.State().String()})
	if err := o.Installer.Install(ctx, decision.Path, decision.Diff); err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: name, Msg: err.Error()})
		return err
	}
	emit(o.Hooks, Event{Phase: PhaseDone, ID: name})
	return nil
}

func shortHex(h string) string {
	if h == "" {
		return "unsigned"
	}
	if len(h) > 16 {
		return h[:16] + "..."
	}
	return h
}
