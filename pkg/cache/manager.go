package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

const lastCleanedFile = ".last-cleaned"

// DefaultManager implements the Manager interface for cache operations.
type DefaultManager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
	}
}

// NewDefaultManager creates a cache manager over the user cache directory.
func NewDefaultManager() (*DefaultManager, error) {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user cache directory")
	}
	if err := os.MkdirAll(cacheDir, CacheDirPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache directory")
	}
	return NewManager(cacheDir), nil
}

// Clean removes cached files according to the specified options. With no
// option set everything is cleaned.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	if cm.directory == "" {
		return nil, ErrCacheDirectory
	}
	result := &CleanResult{}

	if !options.Indexes && !options.Packages && !options.Downloads {
		options.All = true
	}

	if options.All || options.Indexes {
		size, err := cleanDirectory(filepath.Join(cm.directory, IndexDir))
		if err != nil {
			return nil, cleanFailed(IndexDir, err)
		}
		result.IndexFreed = size
		result.TotalFreed += size
	}

	if options.All || options.Packages {
		size, err := cleanDirectory(filepath.Join(cm.directory, PackageDir))
		if err != nil {
			return nil, cleanFailed(PackageDir, err)
		}
		result.PackageFreed = size
		result.TotalFreed += size
	}

	if options.All || options.Downloads {
		size, err := cm.CleanDownloads()
		if err != nil {
			return nil, cleanFailed("downloads", err)
		}
		result.DownloadFreed = size
		result.TotalFreed += size
	}

	if err := cm.touchLastCleaned(); err != nil {
		return result, err
	}
	return result, nil
}

// CleanDownloads removes the temp files left behind by downloads into the
// cache directory and returns the bytes freed.
func (cm *DefaultManager) CleanDownloads() (int64, error) {
	files, err := cm.downloadFiles()
	if err != nil {
		return 0, err
	}
	var freed int64
	for _, path := range files {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return freed, errors.Wrapf(err, "failed to remove %s", path)
		}
		freed += stat.Size()
	}
	return freed, nil
}

func (cm *DefaultManager) downloadFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(cm.directory, fsutil.TempDownloadPrefix+"*"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list temp downloads")
	}
	return matches, nil
}

// GetInfo returns information about the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	if cm.directory == "" {
		return nil, ErrCacheDirectory
	}
	info := &Info{Directory: cm.directory}

	if stat, err := os.Stat(filepath.Join(cm.directory, lastCleanedFile)); err == nil {
		info.LastCleaned = stat.ModTime()
	}

	indexSize, indexFiles, err := getDirSizeAndFiles(filepath.Join(cm.directory, IndexDir))
	if err != nil {
		return nil, infoFailed(IndexDir, err)
	}
	info.IndexSize = indexSize
	info.IndexFiles = indexFiles

	pkgSize, pkgFiles, err := getDirSizeAndFiles(filepath.Join(cm.directory, PackageDir))
	if err != nil {
		return nil, infoFailed(PackageDir, err)
	}
	info.PackageSize = pkgSize
	info.PackageFiles = pkgFiles

	downloads, err := cm.downloadFiles()
	if err != nil {
		return nil, infoFailed("downloads", err)
	}
	for _, path := range downloads {
		if stat, err := os.Stat(path); err == nil && stat.Mode().IsRegular() {
			info.DownloadSize += stat.Size()
			info.DownloadFiles++
		}
	}

	info.TotalSize = info.IndexSize + info.PackageSize + info.DownloadSize
	return info, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

func (cm *DefaultManager) touchLastCleaned() error {
	if err := os.MkdirAll(cm.directory, CacheDirPerm); err != nil {
		return errors.Wrapf(err, "failed to create cache directory")
	}
	path := filepath.Join(cm.directory, lastCleanedFile)
	if err := os.WriteFile(path, nil, fsutil.FileModeSecure); err != nil {
		return errors.Wrapf(err, "failed to record clean time")
	}
	now := time.Now()
	return os.Chtimes(path, now, now)
}

// cleanDirectory removes a directory and returns bytes freed.
func cleanDirectory(dir string) (int64, error) {
	totalSize, _, err := getDirSizeAndFiles(dir)
	if err != nil {
		return 0, err
	}
	if totalSize == 0 {
		if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
			return 0, nil
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return 0, errors.Wrapf(err, "failed to remove directory %s", dir)
	}
	if err := os.MkdirAll(dir, CacheDirPerm); err != nil {
		return totalSize, errors.Wrapf(err, "failed to recreate directory %s", dir)
	}
	return totalSize, nil
}

// getDirSizeAndFiles returns the total size and number of regular files
// below dir. A missing directory is empty.
func getDirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}
