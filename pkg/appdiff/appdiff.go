// Package appdiff classifies a package archive against what is already on the
// device.
package appdiff

import (
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// State is the classification of a package.
type State int

// Diff states.
const (
	StateNew State = iota
	StateInstalled
	// StateDataOnlyRemnant means the application was uninstalled but kept its
	// data. It counts as not installed.
	StateDataOnlyRemnant
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalled:
		return "installed"
	case StateDataOnlyRemnant:
		return "data-only remnant"
	default:
		return "unknown"
	}
}

// Diff is the parsed package together with the matching existing entry.
type Diff struct {
	pkg      *inspector.PackageInfo
	existing *database.ApplicationInfo
	remnant  *database.ApplicationInfo
	declared string
}

// New parses the archive at uri.Path and looks up what it would replace.
// The declared package name is replaced by its canonical name first when the
// platform knows of a rename.
func New(insp inspector.Inspector, uri *url.URL) (*Diff, error) {
	if uri == nil {
		return nil, errors.Wrap(errors.ErrMalformedPackage, "no package URI")
	}
	pkg, err := insp.ParseArchive(uri.Path, inspector.FlagPermissions)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedPackage, "%s: %v", uri.Path, err)
	}

	d := &Diff{pkg: pkg, declared: pkg.PackageName}
	if current := insp.CanonicalName(pkg.PackageName); current != "" && current != pkg.PackageName {
		logger.Debug("Package was renamed", logrus.Fields{"declared": pkg.PackageName, "current": current})
		pkg.PackageName = current
	}

	app, err := insp.GetApplicationInfo(pkg.PackageName, inspector.FlagMatchUninstalled)
	switch {
	case err == nil && app.Installed():
		d.existing = app
	case err == nil:
		d.remnant = app
	case !errors.Is(err, errors.ErrApplicationNotFound):
		return nil, errors.Wrapf(err, "looking up %s", pkg.PackageName)
	}
	return d, nil
}

// State returns the classification.
func (d *Diff) State() State {
	switch {
	case d.existing != nil:
		return StateInstalled
	case d.remnant != nil:
		return StateDataOnlyRemnant
	default:
		return StateNew
	}
}

// Package returns the parsed metadata, with the canonical name applied.
func (d *Diff) Package() *inspector.PackageInfo {
	return d.pkg
}

// Existing returns the installed application, or nil.
func (d *Diff) Existing() *database.ApplicationInfo {
	return d.existing
}

// Remnant returns the data-only entry, or nil.
func (d *Diff) Remnant() *database.ApplicationInfo {
	return d.remnant
}

// Renamed returns the declared name and true when a rename was applied.
func (d *Diff) Renamed() (string, bool) {
	return d.declared, d.declared != d.pkg.PackageName
}

// IsUpdate reports whether installing would upgrade an installed version.
func (d *Diff) IsUpdate() bool {
	return d.existing != nil && d.pkg.VersionCode > d.existing.VersionCode
}
