package fsutil

// Permission modes used for cache, state and downloaded files.
const (
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeSecure  = 0o640 // -rw-r-----

	DirModeDefault = 0o755 // drwxr-xr-x
	DirModeSecure  = 0o750 // drwxr-x---
	DirModePrivate = 0o700 // drwx------
)

// AppName is the directory name used under the user cache/data/state roots.
const AppName = "droidrepo"

// TempDownloadPrefix names temp files allocated for downloads with no explicit destination.
const TempDownloadPrefix = "dl-"
