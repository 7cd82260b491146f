package index

import (
	"net/url"

	"github.com/hashicorp/go-version"
)

// Package is one published build of an application.
type Package struct {
	PackageName   string   `json:"packageName"`
	VersionCode   int64    `json:"versionCode"`
	VersionName   string   `json:"versionName"`
	APKName       string   `json:"apkName"`
	Hash          string   `json:"hash"`
	HashType      string   `json:"hashType"`
	Size          int64    `json:"size"`
	MinSDKVersion int      `json:"minSdkVersion,omitempty"`
	Signer        string   `json:"signer,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
	Added         int64    `json:"added,omitempty"`
}

// GetVersion parses VersionName, returning nil if it is not a version.
func (pkg *Package) GetVersion() *version.Version {
	v, err := version.NewVersion(pkg.VersionName)
	if err != nil {
		return nil
	}
	return v
}

// Newer reports whether pkg supersedes other. Version codes decide; equal
// codes fall back to comparing version names.
func (pkg *Package) Newer(other *Package) bool {
	if other == nil {
		return true
	}
	if pkg.VersionCode != other.VersionCode {
		return pkg.VersionCode > other.VersionCode
	}
	mine, theirs := pkg.GetVersion(), other.GetVersion()
	if mine == nil || theirs == nil {
		return false
	}
	return mine.GreaterThan(theirs)
}

// MatchVersion checks VersionName against a constraint such as ">= 1.2".
func (pkg *Package) MatchVersion(versionConstraint string) bool {
	constraint, err := version.NewConstraint(versionConstraint)
	if err != nil {
		return false
	}
	v := pkg.GetVersion()
	if v == nil {
		return false
	}
	return constraint.Check(v)
}

// GetURL is the package location inside a repository.
func (pkg *Package) GetURL(repoURL *url.URL) *url.URL {
	if repoURL == nil {
		return nil
	}
	return resolveFile(repoURL, pkg.APKName)
}
