package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

const sampleIndex = `{
  "repo": {
    "name": "Example Repo",
    "address": "https://repo.example.org/repo",
    "version": 21,
    "timestamp": 1700000000000
  },
  "apps": [
    {"packageName": "org.example.notes", "name": "Notes", "summary": "Take notes offline"},
    {"packageName": "org.example.maps", "name": "Maps", "summary": "Offline maps"}
  ],
  "packages": {
    "org.example.notes": [
      {"versionCode": 10, "versionName": "1.0.0", "apkName": "org.example.notes_10.apk", "hash": "aa", "hashType": "sha256", "size": 100},
      {"versionCode": 12, "versionName": "1.2.0", "apkName": "org.example.notes_12.apk", "hash": "bb", "hashType": "sha256", "size": 120}
    ],
    "org.example.maps": [
      {"packageName": "org.example.maps", "versionCode": 3, "versionName": "0.3", "apkName": "maps.apk", "hash": "cc", "hashType": "sha256", "size": 30}
    ]
  }
}`

func writeIndexFile(t *testing.T, dir, repoName, content string) string {
	t.Helper()
	indexPath := filepath.Join(dir, repoName+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(indexPath), fsutil.DirModeDefault))
	require.NoError(t, os.WriteFile(indexPath, []byte(content), fsutil.FileModeDefault))
	return indexPath
}
