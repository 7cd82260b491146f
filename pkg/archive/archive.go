// Package archive opens and builds package archives. Packages are zip files
// carrying a manifest.json and signature blocks under META-INF/.
package archive

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// Open exposes the archive at path as a read-only file system. The returned
// close function releases the underlying file and is never nil. Directories
// and files in no known archive format are errors.ErrNotArchive.
func Open(ctx context.Context, path string) (fs.FS, func(), error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, func() {}, errors.Wrap(errors.ErrFileNotFound, path)
		}
		return nil, func() {}, errors.Wrapf(err, "failed to stat %s", path)
	}

	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return nil, func() {}, errors.Wrapf(err, "failed to open archive %s", path)
	}
	switch fsys.(type) {
	case archives.FileFS, archives.DirFS:
		return nil, func() {}, errors.Wrap(errors.ErrNotArchive, path)
	}
	closeFn := func() {}
	if closer, ok := fsys.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}
	return fsys, closeFn, nil
}

// Create writes every file under sourceDir into a zip archive at archivePath.
// Entry names are relative to sourceDir.
func Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return errors.Wrap(err, "failed to get absolute path for source directory")
	}

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return errors.Wrap(err, "failed to read files from disk")
	}

	if err := fsutil.EnsureFileDir(archivePath); err != nil {
		return errors.Wrap(err, "failed to create archive directory")
	}
	file, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create output file %s", archivePath)
	}

	if err := (archives.Zip{}).Archive(ctx, file, files); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "failed to create archive")
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return errors.Wrap(err, "failed to sync archive")
	}
	return file.Close()
}
