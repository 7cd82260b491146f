package config

import (
	"net/url"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/auth"
)

// AuthConfig holds the authentication configuration of a repository.
type AuthConfig struct {
	Basic *BasicAuth `yaml:"basic,omitempty"`
}

// BasicAuth holds configuration for HTTP Basic Authentication.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ToAuthenticator converts the BasicAuth configuration to an Authenticator.
func (b *BasicAuth) ToAuthenticator() auth.Authenticator {
	return auth.BasicAuth{
		Username: b.Username,
		Password: b.Password,
	}
}

// Credential returns the repository's basic credential. Either half may be
// empty, in which case no Authorization header is sent.
func (rc *RepositoryConfig) Credential() auth.BasicAuth {
	if rc.Auth == nil || rc.Auth.Basic == nil {
		return auth.BasicAuth{}
	}
	return auth.BasicAuth{Username: rc.Auth.Basic.Username, Password: rc.Auth.Basic.Password}
}

// FindByURL looks up the repository that serves u and returns its
// credential. A repository matches when scheme and host (including port)
// are equal and its path is a prefix of u's path; the longest path wins.
func (c *Config) FindByURL(u *url.URL) (auth.BasicAuth, bool) {
	if u == nil {
		return auth.BasicAuth{}, false
	}

	var best *RepositoryConfig
	bestLen := -1
	for _, repo := range c.Repositories {
		base := repo.GetURL()
		if base == nil {
			continue
		}
		if !strings.EqualFold(base.Scheme, u.Scheme) || !strings.EqualFold(base.Host, u.Host) {
			continue
		}
		prefix := strings.TrimSuffix(base.Path, "/")
		if !pathHasPrefix(u.Path, prefix) {
			continue
		}
		if len(prefix) > bestLen {
			best, bestLen = repo, len(prefix)
		}
	}

	if best == nil {
		return auth.BasicAuth{}, false
	}
	return best.Credential(), true
}

func pathHasPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
