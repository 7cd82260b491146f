package inspector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/test/testutil"
)

func TestParseArchive(t *testing.T) {
	dir := t.TempDir()
	first := testutil.NewCertificate(t, "first")
	second := testutil.NewCertificate(t, "second")
	path := testutil.BuildPackage(t, dir, testutil.Package{
		Name:        "org.example.app",
		VersionCode: 42,
		VersionName: "4.2",
		Permissions: []string{"android.permission.INTERNET"},
		Signers:     [][]byte{first, second},
	})

	insp := NewArchiveInspector(database.NewStore())

	tests := []struct {
		name      string
		flags     Flags
		wantPerms []string
		wantSigs  [][]byte
	}{
		{name: "metadata only", flags: 0},
		{name: "permissions", flags: FlagPermissions, wantPerms: []string{"android.permission.INTERNET"}},
		{name: "signatures", flags: FlagSignatures, wantSigs: [][]byte{first, second}},
		{
			name:      "everything",
			flags:     FlagPermissions | FlagSignatures,
			wantPerms: []string{"android.permission.INTERNET"},
			wantSigs:  [][]byte{first, second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := insp.ParseArchive(path, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, "org.example.app", info.PackageName)
			assert.Equal(t, int64(42), info.VersionCode)
			assert.Equal(t, "4.2", info.VersionName)
			assert.Equal(t, tt.wantPerms, info.Permissions)
			assert.Equal(t, tt.wantSigs, info.Signatures)
		})
	}
}

func TestParseArchiveUnsigned(t *testing.T) {
	path := testutil.BuildPackage(t, t.TempDir(), testutil.Package{Name: "org.example.unsigned", VersionCode: 1})

	info, err := NewArchiveInspector(database.NewStore()).ParseArchive(path, FlagSignatures)
	require.NoError(t, err)
	assert.Empty(t, info.Signatures)
}

func TestParseArchiveErrors(t *testing.T) {
	dir := t.TempDir()
	insp := NewArchiveInspector(database.NewStore())

	t.Run("missing file", func(t *testing.T) {
		_, err := insp.ParseArchive(filepath.Join(dir, "missing.apk"), 0)
		assert.ErrorIs(t, err, errors.ErrPackageNotFound)
	})

	t.Run("not an archive", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "garbage.apk", []byte("definitely not a zip"))
		_, err := insp.ParseArchive(path, 0)
		assert.ErrorIs(t, err, errors.ErrPackageNotFound)
		assert.ErrorIs(t, err, errors.ErrNotArchive)
	})

	t.Run("no package name", func(t *testing.T) {
		path := testutil.BuildPackage(t, dir, testutil.Package{VersionCode: 3})
		_, err := insp.ParseArchive(path, 0)
		assert.ErrorIs(t, err, errors.ErrMalformedPackage)
	})
}

func TestGetApplicationInfo(t *testing.T) {
	store := database.NewStore()
	store.Put(&database.ApplicationInfo{
		PackageName: "org.example.installed",
		VersionCode: 7,
		Flags:       database.FlagInstalled,
		Signatures:  [][]byte{{0x01, 0x02}},
	})
	store.Put(&database.ApplicationInfo{
		PackageName: "org.example.remnant",
		VersionCode: 3,
	})
	insp := NewArchiveInspector(store)

	tests := []struct {
		name     string
		pkg      string
		flags    Flags
		wantErr  error
		wantSigs [][]byte
	}{
		{name: "installed", pkg: "org.example.installed"},
		{name: "installed with signatures", pkg: "org.example.installed", flags: FlagSignatures, wantSigs: [][]byte{{0x01, 0x02}}},
		{name: "remnant hidden", pkg: "org.example.remnant", wantErr: errors.ErrApplicationNotFound},
		{name: "remnant matched", pkg: "org.example.remnant", flags: FlagMatchUninstalled},
		{name: "unknown", pkg: "org.example.unknown", flags: FlagMatchUninstalled, wantErr: errors.ErrApplicationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := insp.GetApplicationInfo(tt.pkg, tt.flags)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pkg, app.PackageName)
			assert.Equal(t, tt.wantSigs, app.Signatures)
		})
	}
}

func TestCanonicalName(t *testing.T) {
	store := database.NewStore()
	store.AddRename("org.example.old", "org.example.new")
	insp := NewArchiveInspector(store)

	assert.Equal(t, "org.example.new", insp.CanonicalName("org.example.old"))
	assert.Empty(t, insp.CanonicalName("org.example.new"))
}
