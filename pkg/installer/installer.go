// Package installer records verified packages as installed applications. It
// stands in for the platform installer: the package is copied into the
// application directory and its metadata and signers are written to the
// application database.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// ErrDowngrade is returned when a package is older than the installed one.
var ErrDowngrade = fmt.Errorf("refusing to downgrade")

// Installer handles package installation and removal.
type Installer struct {
	store     *database.Store
	dbPath    string
	appDir    string
	inspector inspector.Inspector
	// AllowDowngrade lets Install replace a newer installed version.
	AllowDowngrade bool
}

// New creates an Installer that keeps packages under appDir and persists
// store at dbPath after every change.
func New(store *database.Store, dbPath, appDir string, insp inspector.Inspector) *Installer {
	return &Installer{
		store:     store,
		dbPath:    dbPath,
		appDir:    appDir,
		inspector: insp,
	}
}

// Install copies the package at path into the application directory and
// records it under the (possibly renamed) name diff resolved.
func (i *Installer) Install(ctx context.Context, path string, diff *appdiff.Diff) error {
	if err := ctx.Err(); err != nil {
		return errors.Interrupted(err)
	}
	pkg := diff.Package()

	if existing := diff.Existing(); existing != nil && pkg.VersionCode < existing.VersionCode && !i.AllowDowngrade {
		return errors.Wrapf(ErrDowngrade, "%s: installed %d, candidate %d", pkg.PackageName, existing.VersionCode, pkg.VersionCode)
	}

	signed, err := i.inspector.ParseArchive(path, inspector.FlagSignatures)
	if err != nil {
		return errors.Wrapf(err, "failed to read signers of %s", path)
	}

	target := i.packagePath(pkg.PackageName)
	logger.Debug("Copying package", logrus.Fields{"from": path, "to": target})
	if err := fsutil.EnsureDir(i.appDir); err != nil {
		return errors.Wrapf(err, "failed to create application directory: %s", i.appDir)
	}
	if err := fsutil.Copy(path, target); err != nil {
		return errors.Wrapf(err, "failed to copy package to %s", target)
	}

	i.store.Put(&database.ApplicationInfo{
		PackageName: pkg.PackageName,
		VersionCode: pkg.VersionCode,
		VersionName: pkg.VersionName,
		Flags:       database.FlagInstalled,
		SourceDir:   target,
		Signatures:  signed.Signatures,
		UpdatedAt:   time.Now(),
	})
	if declared, renamed := diff.Renamed(); renamed {
		i.store.AddRename(declared, pkg.PackageName)
	}
	if err := i.store.Save(i.dbPath); err != nil {
		return errors.Wrap(err, "failed to save application database")
	}

	logger.Success("Installed package", logrus.Fields{
		"package": pkg.PackageName,
		"version": pkg.VersionName,
		"state":   diff.State().String(),
	})
	return nil
}

// Uninstall removes an installed application. With keepData the entry stays
// behind as a data-only remnant.
func (i *Installer) Uninstall(name string, keepData bool) error {
	app, ok := i.store.Find(name)
	if !ok || !app.Installed() {
		return errors.Wrap(errors.ErrApplicationNotFound, name)
	}

	if app.SourceDir != "" {
		if err := os.Remove(app.SourceDir); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove %s", app.SourceDir)
		}
	}

	if keepData {
		if err := i.store.MarkUninstalled(name); err != nil {
			return err
		}
	} else {
		i.store.Remove(name)
	}
	if err := i.store.Save(i.dbPath); err != nil {
		return errors.Wrap(err, "failed to save application database")
	}
	logger.Info("Uninstalled package", logrus.Fields{"package": name, "keep_data": keepData})
	return nil
}

func (i *Installer) packagePath(name string) string {
	return filepath.Join(i.appDir, name+".apk")
}
