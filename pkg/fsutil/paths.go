package fsutil

import (
	"os"
	"path/filepath"
)

// GetCacheDir returns the platform-specific cache directory for the application.
// On Linux: ~/.cache/droidrepo/
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetStateDir returns the directory holding the installed application database.
// It honours XDG_STATE_HOME and falls back to ~/.local/state.
func GetStateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", AppName), nil
}
