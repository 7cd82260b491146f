package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/digitorus/pkcs7"

	"github.com/glorpus-work/droidrepo/pkg/archive"
	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// Archive layout.
const (
	ManifestFile = "manifest.json"
	SignatureDir = "META-INF"
)

var signatureBlockExts = []string{".RSA", ".DSA", ".EC"}

// ArchiveInspector reads zip package archives and looks applications up in
// a database.Store.
type ArchiveInspector struct {
	store *database.Store
}

// NewArchiveInspector returns an inspector backed by store.
func NewArchiveInspector(store *database.Store) *ArchiveInspector {
	return &ArchiveInspector{store: store}
}

// ParseArchive implements Inspector.
func (a *ArchiveInspector) ParseArchive(archivePath string, flags Flags) (*PackageInfo, error) {
	fsys, closeFn, err := archive.Open(context.Background(), archivePath)
	defer closeFn()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrPackageNotFound, archivePath, err)
	}

	raw, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedPackage, "%s: missing %s", archivePath, ManifestFile)
	}
	var info PackageInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedPackage, "%s: %v", archivePath, err)
	}
	if info.PackageName == "" {
		return nil, errors.Wrapf(errors.ErrMalformedPackage, "%s: empty packageName", archivePath)
	}

	if flags&FlagPermissions == 0 {
		info.Permissions = nil
	}
	if flags&FlagSignatures != 0 {
		sigs, err := readSignatures(fsys)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrMalformedPackage, "%s: %v", archivePath, err)
		}
		info.Signatures = sigs
	}
	return &info, nil
}

// readSignatures returns the certificates of every signature block, blocks in
// name order and certificates in the order each block declares them.
func readSignatures(fsys fs.FS) ([][]byte, error) {
	entries, err := fs.ReadDir(fsys, SignatureDir)
	if err != nil {
		return nil, nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isSignatureBlock(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var certs [][]byte
	for _, name := range names {
		der, err := fs.ReadFile(fsys, path.Join(SignatureDir, name))
		if err != nil {
			return nil, err
		}
		p7, err := pkcs7.Parse(der)
		if err != nil {
			return nil, errors.Wrapf(err, "signature block %s", name)
		}
		for _, c := range p7.Certificates {
			certs = append(certs, c.Raw)
		}
	}
	return certs, nil
}

func isSignatureBlock(name string) bool {
	ext := strings.ToUpper(path.Ext(name))
	for _, e := range signatureBlockExts {
		if ext == e {
			return true
		}
	}
	return false
}

// GetApplicationInfo implements Inspector.
func (a *ArchiveInspector) GetApplicationInfo(name string, flags Flags) (*database.ApplicationInfo, error) {
	app, ok := a.store.Find(name)
	if !ok {
		return nil, errors.Wrap(errors.ErrApplicationNotFound, name)
	}
	if !app.Installed() && flags&FlagMatchUninstalled == 0 {
		return nil, errors.Wrap(errors.ErrApplicationNotFound, name)
	}
	if flags&FlagSignatures == 0 {
		app.Signatures = nil
	}
	return app, nil
}

// CanonicalName implements Inspector.
func (a *ArchiveInspector) CanonicalName(name string) string {
	return a.store.CurrentName(name)
}
