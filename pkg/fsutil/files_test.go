package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.apk")
	dst := filepath.Join(tmp, "nested", "dst.apk")
	require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))

	require.NoError(t, Move(src, dst))

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestMove_InvalidPaths(t *testing.T) {
	assert.Error(t, Move("", "x"))
	assert.Error(t, Move("x", ""))
	assert.Error(t, Move(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "dst")))
}

func TestCopy_Truncates(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	require.NoError(t, os.WriteFile(src, []byte("short"), FileModeDefault))
	require.NoError(t, os.WriteFile(dst, []byte("a much longer previous content"), FileModeDefault))

	require.NoError(t, Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestLocalLength(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "partial")
	require.NoError(t, os.WriteFile(file, make([]byte, 42), FileModeDefault))

	size, regular := LocalLength(file)
	assert.Equal(t, int64(42), size)
	assert.True(t, regular)

	size, regular = LocalLength(filepath.Join(tmp, "missing"))
	assert.Zero(t, size)
	assert.False(t, regular)

	_, regular = LocalLength(tmp)
	assert.False(t, regular)
}

func TestRemoveQuietly(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.WriteFile(file, nil, FileModeDefault))
	RemoveQuietly(file)
	assert.NoFileExists(t, file)

	RemoveQuietly(file)
	RemoveQuietly("")
}

func TestCreateTempFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path, err := CreateTempFile(dir, TempDownloadPrefix)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), TempDownloadPrefix))
	size, regular := LocalLength(path)
	assert.Zero(t, size)
	assert.True(t, regular)
}

func TestEnsureFileDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "file.json")
	require.NoError(t, EnsureFileDir(target))
	assert.DirExists(t, filepath.Dir(target))
}
