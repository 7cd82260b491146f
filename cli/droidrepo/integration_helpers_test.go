//go:build integration

package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/config"
	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/test/testutil"
)

// testEnv is a config file plus the directories it points at.
type testEnv struct {
	root     string
	cfgPath  string
	cacheDir string
	stateDir string
	signer   []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		root:     root,
		cfgPath:  filepath.Join(root, "config.yaml"),
		cacheDir: filepath.Join(root, "cache"),
		stateDir: filepath.Join(root, "state"),
		signer:   testutil.NewCertificate(t, "droidrepo"),
	}
	env.writeConfig(t, "", "")
	return env
}

// writeConfig writes the config with a single repository, or none when
// repoURL is empty.
func (e *testEnv) writeConfig(t *testing.T, repoName, repoURL string) {
	t.Helper()
	yamlContent := "settings:\n" +
		"  cache_dir: " + strings.ReplaceAll(e.cacheDir, "\\", "\\\\") + "\n" +
		"  state_dir: " + strings.ReplaceAll(e.stateDir, "\\", "\\\\") + "\n" +
		"  http_timeout: 5s\n" +
		"  max_concurrent_syncs: 2\n" +
		"  output_format: text\n" +
		"  log_level: info\n"
	if repoURL != "" {
		yamlContent += "repositories:\n" +
			"  - name: " + repoName + "\n" +
			"    url: " + repoURL + "\n" +
			"    enabled: true\n" +
			"    priority: 1\n"
	} else {
		yamlContent += "repositories: []\n"
	}
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(yamlContent), 0o600))
}

// trustSelf registers a build of the self package signed by the env signer.
func (e *testEnv) trustSelf(t *testing.T) {
	t.Helper()
	self := testutil.BuildPackage(t, t.TempDir(), testutil.Package{
		Name:        config.DefaultSelfPackage,
		VersionCode: 1,
		VersionName: "1.0",
		Signers:     [][]byte{e.signer},
	})
	_, err := e.run(t, "trust", self)
	require.NoError(t, err)
}

// run executes the root command with --config set and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.cfgPath}, args...)...)
}

func (e *testEnv) installedApps(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(filepath.Join(e.stateDir, "installed.json"))
	require.NoError(t, err)
	return store
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	cmd := newRootCmd()
	cmd.SetArgs(args)
	runErr := cmd.ExecuteContext(context.Background())

	_ = w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), runErr
}

// testRepo is a served repository directory holding index-v1.json.
type testRepo struct {
	dir   string
	index *index.Index
	srv   *httptest.Server
}

func newTestRepo(t *testing.T, name string) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo := &testRepo{
		dir: dir,
		index: &index.Index{
			Repo: index.RepoInfo{Name: name, Version: 1, Timestamp: 1700000000000},
		},
		srv: httptest.NewServer(http.FileServer(http.Dir(dir))),
	}
	repo.index.Repo.Address = repo.srv.URL
	t.Cleanup(repo.srv.Close)
	return repo
}

// publish builds p into the repository and lists it in the index.
func (r *testRepo) publish(t *testing.T, p testutil.Package, summary string) {
	t.Helper()
	path := testutil.BuildPackage(t, r.dir, p)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	sum := sha256.Sum256(data)

	r.index.AddPackage(&index.Package{
		PackageName: p.Name,
		VersionCode: p.VersionCode,
		VersionName: p.VersionName,
		APKName:     filepath.Base(path),
		Hash:        hex.EncodeToString(sum[:]),
		HashType:    "sha256",
		Size:        int64(len(data)),
	})
	for _, app := range r.index.Apps {
		if app.PackageName == p.Name {
			return
		}
	}
	r.index.Apps = append(r.index.Apps, &index.App{PackageName: p.Name, Name: p.Name, Summary: summary})
}

// write stores the index so the server can serve it.
func (r *testRepo) write(t *testing.T) {
	t.Helper()
	data, err := json.Marshal(r.index)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(r.dir, index.FileName), data, 0o644))
}

func (r *testRepo) url() string {
	return r.srv.URL
}
