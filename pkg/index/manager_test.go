package index

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRepositoryIndexURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "https://repo.example.org/repo", want: "https://repo.example.org/repo/index-v1.json"},
		{base: "https://repo.example.org/repo/", want: "https://repo.example.org/repo/index-v1.json"},
		{base: "http://192.168.1.50:8888/fdroid/repo?x=1", want: "http://192.168.1.50:8888/fdroid/repo/index-v1.json?x=1"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			r := &Repository{URL: mustURL(t, tt.base)}
			assert.Equal(t, tt.want, r.IndexURL().String())
		})
	}
}

func TestManagerGetIndex(t *testing.T) {
	dir := t.TempDir()
	m := NewManager([]*Repository{{Name: "main", Enabled: true}}, dir)

	_, err := m.GetIndex("main")
	assert.Error(t, err)

	writeIndexFile(t, dir, "main", sampleIndex)
	idx, err := m.GetIndex("main")
	require.NoError(t, err)
	assert.Equal(t, "Example Repo", idx.Repo.Name)

	writeIndexFile(t, dir, "main", `{"repo": {"name": "Replaced"}}`)
	idx, err = m.GetIndex("main")
	require.NoError(t, err)
	assert.Equal(t, "Example Repo", idx.Repo.Name)

	m.Invalidate("main")
	idx, err = m.GetIndex("main")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", idx.Repo.Name)
}

func TestManagerGetCacheAge(t *testing.T) {
	dir := t.TempDir()
	m := NewManager([]*Repository{{Name: "main"}}, dir)

	_, err := m.GetCacheAge("other")
	assert.Error(t, err)

	_, err = m.GetCacheAge("main")
	assert.Error(t, err)

	writeIndexFile(t, dir, "main", sampleIndex)
	age, err := m.GetCacheAge("main")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int64(age), int64(0))
}

func TestManagerResolvePackage(t *testing.T) {
	dir := t.TempDir()
	writeIndexFile(t, dir, "main", sampleIndex)
	writeIndexFile(t, dir, "mirror", `{
  "repo": {"name": "Mirror"},
  "packages": {"org.example.notes": [{"versionCode": 11, "versionName": "1.1.0", "apkName": "notes-11.apk"}]}
}`)
	writeIndexFile(t, dir, "disabled", `{
  "repo": {"name": "Disabled"},
  "packages": {"org.example.notes": [{"versionCode": 99, "versionName": "9.9.9", "apkName": "notes-99.apk"}]}
}`)

	main := &Repository{Name: "main", URL: mustURL(t, "https://repo.example.org/repo"), Priority: 1, Enabled: true}
	mirror := &Repository{Name: "mirror", URL: mustURL(t, "https://mirror.example.org/fdroid/repo"), Priority: 5, Enabled: true}
	disabled := &Repository{Name: "disabled", URL: mustURL(t, "https://disabled.example.org/repo"), Priority: 10, Enabled: false}
	m := NewManager([]*Repository{main, mirror, disabled}, dir)

	tests := []struct {
		name       string
		pkg        string
		constraint string
		wantRepo   string
		wantCode   int64
		wantURL    string
		wantErr    bool
	}{
		{name: "priority wins over version", pkg: "org.example.notes", wantRepo: "mirror", wantCode: 11, wantURL: "https://mirror.example.org/fdroid/repo/notes-11.apk"},
		{name: "constraint falls through to lower priority", pkg: "org.example.notes", constraint: ">= 1.2", wantRepo: "main", wantCode: 12, wantURL: "https://repo.example.org/repo/org.example.notes_12.apk"},
		{name: "single repository", pkg: "org.example.maps", wantRepo: "main", wantCode: 3, wantURL: "https://repo.example.org/repo/maps.apk"},
		{name: "unknown package", pkg: "org.example.unknown", wantErr: true},
		{name: "unsatisfiable constraint", pkg: "org.example.notes", constraint: ">= 5.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.ResolvePackage(tt.pkg, tt.constraint)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPackageNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepo, res.Repository.Name)
			assert.Equal(t, tt.wantCode, res.Package.VersionCode)
			assert.Equal(t, tt.wantURL, res.URL.String())
		})
	}
}
