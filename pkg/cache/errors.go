package cache

import "fmt"

// Cache errors. Failures keep the underlying cause reachable with errors.Is.
var (
	ErrCacheClean     = fmt.Errorf("cache clean failed")
	ErrCacheInfo      = fmt.Errorf("cache info unavailable")
	ErrCacheDirectory = fmt.Errorf("cache directory must not be empty")
)

func cleanFailed(area string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCacheClean, area, err)
}

func infoFailed(area string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCacheInfo, area, err)
}
