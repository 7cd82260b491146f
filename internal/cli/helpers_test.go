package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/config"
	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/orchestrator"
)

func TestSyncReport(t *testing.T) {
	report := syncReport([]orchestrator.SyncResult{
		{Repository: "main", Outcome: download.OutcomeDownloaded, Changed: true},
		{Repository: "mirror", Outcome: download.OutcomeAlreadyComplete},
		{Repository: "offline", Err: errors.ErrTransport},
	})

	require.Len(t, report, 3)
	assert.Equal(t, syncEntry{Repository: "main", Outcome: download.OutcomeDownloaded.String(), Changed: true}, report[0])
	assert.False(t, report[1].Changed)
	assert.Empty(t, report[2].Outcome)
	assert.Equal(t, errors.ErrTransport.Error(), report[2].Error)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer summary", 10, "a much ..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestFormatAdded(t *testing.T) {
	assert.Equal(t, "-", formatAdded(0))
	assert.Equal(t, "2023-11-14", formatAdded(1700000000000))
}

func TestLoadIndexManager(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Settings.CacheDir = t.TempDir()
	require.NoError(t, cfg.AddRepository("main", "https://repo.example.org/repo", true))
	require.NoError(t, cfg.AddRepository("off", "https://off.example.org/repo", false))
	cfg.GetRepository("main").Priority = 3

	idx := loadIndexManager(cfg)
	repos := idx.ListRepositories()
	require.Len(t, repos, 2)
	assert.Equal(t, 3, repos[0].Priority)
	assert.Equal(t, "https://repo.example.org/repo/index-v1.json", repos[0].IndexURL().String())
	assert.False(t, repos[1].Enabled)
	assert.Equal(t, filepath.Join(cfg.GetIndexDir(), "main.json"), idx.IndexPath("main"))
}

func TestNewConfigView(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.AddRepository("main", "https://repo.example.org/repo", true))
	cfg.GetRepository("main").Auth = &config.AuthConfig{Basic: &config.BasicAuth{Username: "u", Password: "secret"}}

	view := newConfigView("/etc/droidrepo.yaml", cfg)
	assert.Equal(t, "/etc/droidrepo.yaml", view.Path)
	assert.Equal(t, cfg.Settings.SelfPackage, view.Settings["self_package"])
	require.Len(t, view.Repositories, 1)
	assert.True(t, view.Repositories[0].Auth)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestVersionCommandJSON(t *testing.T) {
	format := "json"
	OutputFormat = &format
	t.Cleanup(func() { OutputFormat = nil })

	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	var info buildInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Platform)
}
