// Package inspector reads package archives and answers questions about the
// applications present on the device.
package inspector

import (
	"github.com/glorpus-work/droidrepo/pkg/database"
)

//go:generate mockgen -destination=./mocks/inspector.go -package=mocks . Inspector

// Flags select what ParseArchive and GetApplicationInfo return.
type Flags uint32

// Inspection flags.
const (
	// FlagPermissions includes requested permissions.
	FlagPermissions Flags = 1 << iota
	// FlagSignatures includes signing certificates.
	FlagSignatures
	// FlagMatchUninstalled also matches entries that only keep data behind.
	FlagMatchUninstalled
)

// PackageInfo is the metadata parsed from a package archive.
type PackageInfo struct {
	PackageName string   `json:"packageName"`
	VersionCode int64    `json:"versionCode"`
	VersionName string   `json:"versionName,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	// Signatures holds raw DER certificates in archive order.
	Signatures [][]byte `json:"-"`
}

// Inspector is the platform package inspector.
type Inspector interface {
	// ParseArchive reads the package at path. It fails with
	// errors.ErrPackageNotFound when the file cannot be opened and
	// errors.ErrMalformedPackage when its metadata cannot be parsed.
	ParseArchive(path string, flags Flags) (*PackageInfo, error)

	// GetApplicationInfo returns the entry for name or fails with
	// errors.ErrApplicationNotFound.
	GetApplicationInfo(name string, flags Flags) (*database.ApplicationInfo, error)

	// CanonicalName returns the current name of a renamed package, or "".
	CanonicalName(name string) string
}
