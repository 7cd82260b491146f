package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/orchestrator/mocks"
	"github.com/glorpus-work/droidrepo/pkg/signature"
	"github.com/glorpus-work/droidrepo/pkg/transport"
	"github.com/glorpus-work/droidrepo/test/testutil"
)

const selfPackage = "org.droidrepo.client"

// fileServer serves dir and counts requests per method.
type fileServer struct {
	*httptest.Server
	dir   string
	heads atomic.Int32
	gets  atomic.Int32
}

func newFileServer(t *testing.T) *fileServer {
	t.Helper()
	fs := &fileServer{dir: t.TempDir()}
	files := http.FileServer(http.Dir(fs.dir))
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			fs.heads.Add(1)
		case http.MethodGet:
			fs.gets.Add(1)
		}
		files.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fileServer) put(t *testing.T, name, content string, modified time.Time) {
	t.Helper()
	path := testutil.WriteFile(t, fs.dir, name, []byte(content))
	require.NoError(t, os.Chtimes(path, modified, modified))
}

func (fs *fileServer) repo(t *testing.T, name string) *index.Repository {
	t.Helper()
	u, err := url.Parse(fs.URL + "/" + name)
	require.NoError(t, err)
	return &index.Repository{Name: name, URL: u, Enabled: true}
}

func newSelector(t *testing.T) *download.Selector {
	return download.NewSelector(transport.Options{Timeout: 5 * time.Second}, t.TempDir())
}

func TestSyncAll(t *testing.T) {
	srv := newFileServer(t)
	modified := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	srv.put(t, "main/index-v1.json", `{"repo":{"name":"main"}}`, modified)
	srv.put(t, "mirror/index-v1.json", `{"repo":{"name":"mirror"}}`, modified)

	var (
		mu       sync.Mutex
		sessions = map[string]bool{}
	)
	orch := &Orchestrator{
		Selector: newSelector(t),
		Hooks: Hooks{OnEvent: func(e Event) {
			mu.Lock()
			defer mu.Unlock()
			sessions[e.Session] = true
		}},
	}
	repos := []*index.Repository{srv.repo(t, "main"), srv.repo(t, "mirror")}
	indexDir := t.TempDir()

	results, err := orch.SyncAll(context.Background(), repos, indexDir, Options{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Changed, r.Repository)
		assert.Equal(t, download.OutcomeDownloaded, r.Outcome)
	}
	data, err := os.ReadFile(filepath.Join(indexDir, "main.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo":{"name":"main"}}`, string(data))
	assert.Equal(t, int32(2), srv.gets.Load())

	require.Len(t, sessions, 1)
	for id := range sessions {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}

	t.Run("unchanged remote is not transferred", func(t *testing.T) {
		results, err := orch.SyncAll(context.Background(), repos, indexDir, Options{Concurrency: 2})
		require.NoError(t, err)
		for _, r := range results {
			assert.False(t, r.Changed, r.Repository)
		}
		assert.Equal(t, int32(2), srv.gets.Load())
	})

	t.Run("newer remote is transferred whole", func(t *testing.T) {
		srv.put(t, "main/index-v1.json", `{"repo":{"name":"main2"}}`, modified.Add(time.Hour))

		results, err := orch.SyncAll(context.Background(), repos, indexDir, Options{})
		require.NoError(t, err)
		changed := map[string]bool{}
		for _, r := range results {
			changed[r.Repository] = r.Changed
		}
		assert.Equal(t, map[string]bool{"main": true, "mirror": false}, changed)

		data, err := os.ReadFile(filepath.Join(indexDir, "main.json"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"repo":{"name":"main2"}}`, string(data))
	})

	t.Run("force skips the probe", func(t *testing.T) {
		before := srv.gets.Load()
		_, err := orch.SyncAll(context.Background(), repos, indexDir, Options{Force: true})
		require.NoError(t, err)
		assert.Equal(t, before+2, srv.gets.Load())
	})
}

func TestSyncAllPartialFailure(t *testing.T) {
	srv := newFileServer(t)
	srv.put(t, "main/index-v1.json", `{"repo":{"name":"main"}}`, time.Now())

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL, err := url.Parse(dead.URL + "/repo")
	require.NoError(t, err)
	dead.Close()

	repos := []*index.Repository{
		srv.repo(t, "main"),
		srv.repo(t, "missing"),
		{Name: "offline", URL: deadURL},
		{Name: "no-url"},
	}
	orch := &Orchestrator{Selector: newSelector(t)}

	results, err := orch.SyncAll(context.Background(), repos, t.TempDir(), Options{Concurrency: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")

	byName := map[string]SyncResult{}
	for _, r := range results {
		byName[r.Repository] = r
	}
	require.Len(t, byName, 3)
	assert.True(t, byName["main"].Changed)
	assert.NoError(t, byName["missing"].Err)
	assert.ErrorIs(t, byName["offline"].Err, errors.ErrTransport)
	assert.Equal(t, download.OutcomeNotFound, byName["missing"].Outcome)
	assert.False(t, byName["missing"].Changed)
}

func TestSyncAllKeepsIndexWhenTransferFails(t *testing.T) {
	modified := time.Now().Add(-time.Hour).Truncate(time.Second)
	var broken atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			w.Header().Set("Last-Modified", modified.Add(time.Hour).UTC().Format(http.TimeFormat))
			if r.Method == http.MethodGet {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Length", "64")
			return
		}
		w.Header().Set("Last-Modified", modified.UTC().Format(http.TimeFormat))
		_, _ = w.Write([]byte(`{"repo":{"name":"main"}}`))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL + "/main")
	require.NoError(t, err)
	repos := []*index.Repository{{Name: "main", URL: u, Enabled: true}}
	indexDir := t.TempDir()
	orch := &Orchestrator{Selector: newSelector(t)}

	_, err = orch.SyncAll(context.Background(), repos, indexDir, Options{})
	require.NoError(t, err)

	broken.Store(true)
	results, err := orch.SyncAll(context.Background(), repos, indexDir, Options{})
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, errors.ErrTransport)
	assert.False(t, results[0].Changed)

	data, err := os.ReadFile(filepath.Join(indexDir, "main.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo":{"name":"main"}}`, string(data))

	entries, err := os.ReadDir(indexDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "partial downloads are cleaned up")
}

func TestSyncAllSelectorFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mocks.NewMockDownloaderFactory(ctrl)
	factory.EXPECT().Select(gomock.Any(), gomock.Any()).Return(nil, errors.ErrUnsupportedScheme)

	u, err := url.Parse("ftp://example.org/repo")
	require.NoError(t, err)
	orch := &Orchestrator{Selector: factory}

	results, err := orch.SyncAll(context.Background(), []*index.Repository{{Name: "ftp", URL: u}}, t.TempDir(), Options{})
	assert.ErrorIs(t, err, errors.ErrUnsupportedScheme)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, errors.ErrUnsupportedScheme)
}

func TestSyncAllCancelled(t *testing.T) {
	srv := newFileServer(t)
	srv.put(t, "main/index-v1.json", `{}`, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := &Orchestrator{Selector: newSelector(t)}
	_, err := orch.SyncAll(ctx, []*index.Repository{srv.repo(t, "main")}, t.TempDir(), Options{})
	assert.ErrorIs(t, err, errors.ErrInterrupted)
}

func TestSyncAllWithoutSelector(t *testing.T) {
	_, err := (&Orchestrator{}).SyncAll(context.Background(), nil, t.TempDir(), Options{})
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

type verifyFixture struct {
	srv     *fileServer
	trusted []byte
	orch    *Orchestrator
	store   *database.Store
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()
	f := &verifyFixture{
		srv:     newFileServer(t),
		trusted: testutil.NewCertificate(t, "trusted"),
		store:   database.NewStore(),
	}
	f.store.Put(&database.ApplicationInfo{
		PackageName: selfPackage,
		Flags:       database.FlagInstalled,
		Signatures:  [][]byte{f.trusted},
	})
	insp := inspector.NewArchiveInspector(f.store)
	f.orch = &Orchestrator{
		Selector:  newSelector(t),
		Verifier:  signature.NewVerifier(insp, selfPackage),
		Inspector: insp,
	}
	return f
}

// publish builds a package into the server directory and returns its URL and
// SHA-256.
func (f *verifyFixture) publish(t *testing.T, p testutil.Package) (*url.URL, string) {
	t.Helper()
	path := testutil.BuildPackage(t, f.srv.dir, p)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	u, err := url.Parse(f.srv.URL + "/" + filepath.Base(path))
	require.NoError(t, err)
	return u, hex.EncodeToString(sum[:])
}

func TestFetchAndVerify(t *testing.T) {
	f := newVerifyFixture(t)
	other := testutil.NewCertificate(t, "other")

	tests := []struct {
		name    string
		signers [][]byte
		wantOK  bool
	}{
		{name: "trusted signer", signers: [][]byte{f.trusted}, wantOK: true},
		{name: "foreign signer", signers: [][]byte{other}, wantOK: false},
		{name: "unsigned", wantOK: false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, sum := f.publish(t, testutil.Package{Name: "org.example.app", VersionCode: int64(i + 1), Signers: tt.signers})
			dest := filepath.Join(t.TempDir(), "app.apk")

			var lastWritten int64
			decision, err := f.orch.FetchAndVerify(context.Background(), u, FetchOptions{
				Dest:     dest,
				SHA256:   sum,
				Progress: func(written, _ int64) { lastWritten = written },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, decision.SignatureOK)
			assert.Equal(t, dest, decision.Path)
			assert.Equal(t, appdiff.StateNew, decision.Diff.State())
			assert.Equal(t, "org.example.app", decision.Diff.Package().PackageName)
			assert.Positive(t, lastWritten)
		})
	}
}

func TestFetchAndVerifyErrors(t *testing.T) {
	f := newVerifyFixture(t)
	u, _ := f.publish(t, testutil.Package{Name: "org.example.app", VersionCode: 1, Signers: [][]byte{f.trusted}})

	t.Run("checksum mismatch removes the file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "app.apk")
		_, err := f.orch.FetchAndVerify(context.Background(), u, FetchOptions{Dest: dest, SHA256: "00"})
		assert.ErrorIs(t, err, errors.ErrMalformedPackage)
		assert.NoFileExists(t, dest)
	})

	t.Run("remote not found", func(t *testing.T) {
		missing, err := url.Parse(f.srv.URL + "/nope.apk")
		require.NoError(t, err)
		_, err = f.orch.FetchAndVerify(context.Background(), missing, FetchOptions{Dest: filepath.Join(t.TempDir(), "x.apk")})
		assert.ErrorIs(t, err, errors.ErrPackageNotFound)
	})

	t.Run("no destination", func(t *testing.T) {
		_, err := f.orch.FetchAndVerify(context.Background(), u, FetchOptions{})
		assert.ErrorIs(t, err, errors.ErrConfiguration)
	})

	t.Run("own signature unreadable", func(t *testing.T) {
		insp := inspector.NewArchiveInspector(database.NewStore())
		orch := &Orchestrator{
			Selector:  f.orch.Selector,
			Verifier:  signature.NewVerifier(insp, selfPackage),
			Inspector: insp,
		}
		_, err := orch.FetchAndVerify(context.Background(), u, FetchOptions{Dest: filepath.Join(t.TempDir(), "app.apk")})
		assert.ErrorIs(t, err, errors.ErrConfiguration)
	})
}

func TestInstall(t *testing.T) {
	f := newVerifyFixture(t)
	u, _ := f.publish(t, testutil.Package{Name: "org.example.app", VersionCode: 1, Signers: [][]byte{f.trusted}})
	decision, err := f.orch.FetchAndVerify(context.Background(), u, FetchOptions{Dest: filepath.Join(t.TempDir(), "app.apk")})
	require.NoError(t, err)
	require.True(t, decision.SignatureOK)

	t.Run("verified package is handed over", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inst := mocks.NewMockInstaller(ctrl)
		inst.EXPECT().Install(gomock.Any(), decision.Path, decision.Diff).Return(nil)

		var phases []Phase
		orch := *f.orch
		orch.Installer = inst
		orch.Hooks = Hooks{OnEvent: func(e Event) { phases = append(phases, e.Phase) }}

		require.NoError(t, orch.Install(context.Background(), decision))
		assert.Equal(t, []Phase{PhaseInstalling, PhaseDone}, phases)
	})

	t.Run("signature mismatch blocks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inst := mocks.NewMockInstaller(ctrl)

		orch := *f.orch
		orch.Installer = inst
		blocked := *decision
		blocked.SignatureOK = false

		err := orch.Install(context.Background(), &blocked)
		assert.ErrorIs(t, err, errors.ErrSignatureMismatch)
	})

	t.Run("installer failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inst := mocks.NewMockInstaller(ctrl)
		inst.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.ErrConfiguration)

		orch := *f.orch
		orch.Installer = inst
		assert.ErrorIs(t, orch.Install(context.Background(), decision), errors.ErrConfiguration)
	})

	t.Run("missing installer or decision", func(t *testing.T) {
		assert.ErrorIs(t, f.orch.Install(context.Background(), decision), errors.ErrConfiguration)
		assert.ErrorIs(t, f.orch.Install(context.Background(), nil), errors.ErrConfiguration)
	})
}

func TestPrepare(t *testing.T) {
	f := newVerifyFixture(t)
	u, sum := f.publish(t, testutil.Package{Name: "org.example.app", VersionCode: 7, VersionName: "0.7", Signers: [][]byte{f.trusted}})

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockPackageResolver(ctrl)
	resolver.EXPECT().ResolvePackage("org.example.app", ">= 0.5").Return(&index.Resolution{
		Repository: &index.Repository{Name: "main"},
		Package:    &index.Package{PackageName: "org.example.app", VersionCode: 7, APKName: filepath.Base(u.Path), Hash: sum},
		URL:        u,
	}, nil)
	resolver.EXPECT().ResolvePackage("org.example.gone", "").Return(nil, index.ErrPackageNotFound)

	orch := *f.orch
	orch.Index = resolver
	packageDir := t.TempDir()

	decision, err := orch.Prepare(context.Background(), "org.example.app", ">= 0.5", packageDir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(packageDir, filepath.Base(u.Path)), decision.Path)
	assert.True(t, decision.SignatureOK)
	assert.Equal(t, int64(7), decision.Diff.Package().VersionCode)

	_, err = orch.Prepare(context.Background(), "org.example.gone", "", packageDir, nil)
	assert.ErrorIs(t, err, index.ErrPackageNotFound)

	_, err = f.orch.Prepare(context.Background(), "org.example.app", "", packageDir, nil)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}
