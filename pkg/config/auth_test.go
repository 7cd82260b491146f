package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/auth"
)

func TestFindByURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repositories = []*RepositoryConfig{
		{Name: "root", URL: "https://repo.example.org/", Enabled: true},
		{
			Name: "private", URL: "https://repo.example.org/private/repo", Enabled: true,
			Auth: &AuthConfig{Basic: &BasicAuth{Username: "alice", Password: "secret"}},
		},
		{
			Name: "swap", URL: "http://192.168.1.50:8888/fdroid/repo", Enabled: true,
			Auth: &AuthConfig{Basic: &BasicAuth{Username: "bob"}},
		},
	}

	tests := []struct {
		name      string
		url       string
		wantFound bool
		want      auth.BasicAuth
	}{
		{"longest prefix wins", "https://repo.example.org/private/repo/app.apk", true, auth.BasicAuth{Username: "alice", Password: "secret"}},
		{"shorter prefix", "https://repo.example.org/public/app.apk", true, auth.BasicAuth{}},
		{"path segment boundary", "https://repo.example.org/private/repository/app.apk", true, auth.BasicAuth{}},
		{"port must match", "http://192.168.1.50:9999/fdroid/repo/a.apk", false, auth.BasicAuth{}},
		{"partial credential", "http://192.168.1.50:8888/fdroid/repo/a.apk", true, auth.BasicAuth{Username: "bob"}},
		{"scheme must match", "http://repo.example.org/private/repo/a.apk", false, auth.BasicAuth{}},
		{"unknown host", "https://other.org/repo", false, auth.BasicAuth{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)
			got, found := cfg.FindByURL(u)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}

	_, found := cfg.FindByURL(nil)
	assert.False(t, found)
}

func TestBasicAuthToAuthenticator(t *testing.T) {
	a := (&BasicAuth{Username: "u", Password: "p"}).ToAuthenticator()
	assert.Equal(t, auth.BasicAuthType, a.Type())
}
