package appdiff

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/inspector/mocks"
	"github.com/glorpus-work/droidrepo/test/testutil"
)

func TestNewWithArchiveInspector(t *testing.T) {
	dir := t.TempDir()
	store := database.NewStore()
	store.Put(&database.ApplicationInfo{PackageName: "org.example.installed", VersionCode: 5, Flags: database.FlagInstalled})
	store.Put(&database.ApplicationInfo{PackageName: "org.example.remnant", VersionCode: 2})
	store.Put(&database.ApplicationInfo{PackageName: "org.example.current", VersionCode: 9, Flags: database.FlagInstalled})
	store.AddRename("org.example.legacy", "org.example.current")
	insp := inspector.NewArchiveInspector(store)

	tests := []struct {
		name        string
		pkg         string
		wantState   State
		wantName    string
		wantRenamed bool
		wantUpdate  bool
	}{
		{name: "fresh package", pkg: "org.example.fresh", wantState: StateNew, wantName: "org.example.fresh"},
		{name: "installed package", pkg: "org.example.installed", wantState: StateInstalled, wantName: "org.example.installed", wantUpdate: true},
		{name: "data only remnant", pkg: "org.example.remnant", wantState: StateDataOnlyRemnant, wantName: "org.example.remnant"},
		{name: "renamed package", pkg: "org.example.legacy", wantState: StateInstalled, wantName: "org.example.current", wantRenamed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.BuildPackage(t, dir, testutil.Package{Name: tt.pkg, VersionCode: 6})

			d, err := New(insp, &url.URL{Scheme: "file", Path: path})
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, d.State())
			assert.Equal(t, tt.wantName, d.Package().PackageName)
			assert.Equal(t, tt.wantUpdate, d.IsUpdate())

			declared, renamed := d.Renamed()
			assert.Equal(t, tt.wantRenamed, renamed)
			assert.Equal(t, tt.pkg, declared)
		})
	}
}

func TestRemnantIsNotInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	insp := mocks.NewMockInspector(ctrl)
	insp.EXPECT().ParseArchive("/tmp/app.apk", inspector.FlagPermissions).
		Return(&inspector.PackageInfo{PackageName: "org.example", VersionCode: 3}, nil)
	insp.EXPECT().CanonicalName("org.example").Return("")
	insp.EXPECT().GetApplicationInfo("org.example", inspector.FlagMatchUninstalled).
		Return(&database.ApplicationInfo{PackageName: "org.example", VersionCode: 1}, nil)

	d, err := New(insp, &url.URL{Path: "/tmp/app.apk"})
	require.NoError(t, err)
	assert.Equal(t, StateDataOnlyRemnant, d.State())
	assert.Nil(t, d.Existing())
	assert.NotNil(t, d.Remnant())
	assert.False(t, d.IsUpdate())
}

func TestRenameLooksUpCanonicalName(t *testing.T) {
	ctrl := gomock.NewController(t)
	insp := mocks.NewMockInspector(ctrl)
	insp.EXPECT().ParseArchive("/tmp/app.apk", inspector.FlagPermissions).
		Return(&inspector.PackageInfo{PackageName: "old.name"}, nil)
	insp.EXPECT().CanonicalName("old.name").Return("new.name")
	insp.EXPECT().GetApplicationInfo("new.name", inspector.FlagMatchUninstalled).
		Return(nil, errors.ErrApplicationNotFound)

	d, err := New(insp, &url.URL{Path: "/tmp/app.apk"})
	require.NoError(t, err)
	assert.Equal(t, StateNew, d.State())
	assert.Equal(t, "new.name", d.Package().PackageName)
}

func TestNewErrors(t *testing.T) {
	t.Run("unparseable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		insp := mocks.NewMockInspector(ctrl)
		insp.EXPECT().ParseArchive("/tmp/bad.apk", inspector.FlagPermissions).Return(nil, errors.ErrPackageNotFound)

		_, err := New(insp, &url.URL{Path: "/tmp/bad.apk"})
		assert.ErrorIs(t, err, errors.ErrMalformedPackage)
	})

	t.Run("nil uri", func(t *testing.T) {
		_, err := New(mocks.NewMockInspector(gomock.NewController(t)), nil)
		assert.ErrorIs(t, err, errors.ErrMalformedPackage)
	})

	t.Run("lookup failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		insp := mocks.NewMockInspector(ctrl)
		insp.EXPECT().ParseArchive("/tmp/app.apk", inspector.FlagPermissions).
			Return(&inspector.PackageInfo{PackageName: "org.example"}, nil)
		insp.EXPECT().CanonicalName("org.example").Return("")
		insp.EXPECT().GetApplicationInfo("org.example", inspector.FlagMatchUninstalled).
			Return(nil, errors.ErrConfiguration)

		_, err := New(insp, &url.URL{Path: "/tmp/app.apk"})
		assert.ErrorIs(t, err, errors.ErrConfiguration)
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "new", StateNew.String())
	assert.Equal(t, "installed", StateInstalled.String())
	assert.Equal(t, "data-only remnant", StateDataOnlyRemnant.String())
}
