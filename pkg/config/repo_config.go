package config

import "net/url"

// GetURL parses and returns the repository URL, or nil when it is not an
// absolute URL.
func (rc *RepositoryConfig) GetURL() *url.URL {
	parsed, err := url.Parse(rc.URL)
	if err != nil || parsed.Scheme == "" {
		return nil
	}
	return parsed
}
