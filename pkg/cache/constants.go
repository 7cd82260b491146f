package cache

import (
	"os"

	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// Cache layout below the cache directory.
const (
	IndexDir   = "indexes"
	PackageDir = "packages"
)

// CacheDirPerm is the permission mode for recreated cache directories.
var CacheDirPerm os.FileMode = fsutil.DirModePrivate
