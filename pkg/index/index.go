// Package index parses repository index files and resolves packages across
// repositories.
package index

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// RepoInfo is the repository header of an index.
type RepoInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
	Version     int    `json:"version"`
	Timestamp   int64  `json:"timestamp"`
}

// App is the listing of an application.
type App struct {
	PackageName          string `json:"packageName"`
	Name                 string `json:"name,omitempty"`
	Summary              string `json:"summary,omitempty"`
	License              string `json:"license,omitempty"`
	SuggestedVersionCode string `json:"suggestedVersionCode,omitempty"`
}

// Index is a parsed repository index.
type Index struct {
	Repo     RepoInfo              `json:"repo"`
	Apps     []*App                `json:"apps"`
	Packages map[string][]*Package `json:"packages"`
}

// ParseIndex parses an index from JSON data.
func ParseIndex(data []byte) (*Index, error) {
	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrap(err, "failed to parse index")
	}
	if index.Repo.Name == "" {
		return nil, errors.Wrap(ErrInvalidIndex, "missing repo name")
	}
	if index.Packages == nil {
		index.Packages = make(map[string][]*Package)
	}
	for name, pkgs := range index.Packages {
		for _, pkg := range pkgs {
			if pkg.PackageName == "" {
				pkg.PackageName = name
			}
		}
	}
	return &index, nil
}

// ParseIndexFromReader parses an index from an io.Reader.
func ParseIndexFromReader(reader io.Reader) (*Index, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read index data")
	}
	return ParseIndex(data)
}

// ParseIndexFromFile parses the index stored at filePath.
func ParseIndexFromFile(filePath string) (*Index, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open index file %s for parsing", filePath)
	}
	defer func() { _ = file.Close() }()
	return ParseIndexFromReader(file)
}

// ToJSON converts the index to JSON bytes.
func (idx *Index) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal index to JSON")
	}
	return data, nil
}

// FindPackages returns every build listed for name.
func (idx *Index) FindPackages(name string) []*Package {
	return idx.Packages[name]
}

// Latest returns the newest build of name, or nil.
func (idx *Index) Latest(name string) *Package {
	var latest *Package
	for _, pkg := range idx.Packages[name] {
		if pkg.Newer(latest) {
			latest = pkg
		}
	}
	return latest
}

// Names lists the package names in the index, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.Packages))
	for name := range idx.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search returns the apps whose package name, display name or summary
// contains query, case-insensitively.
func (idx *Index) Search(query string) []*App {
	q := strings.ToLower(query)
	var out []*App
	for _, app := range idx.Apps {
		if strings.Contains(strings.ToLower(app.PackageName), q) ||
			strings.Contains(strings.ToLower(app.Name), q) ||
			strings.Contains(strings.ToLower(app.Summary), q) {
			out = append(out, app)
		}
	}
	return out
}

// AddPackage inserts pkg, replacing a build with the same version code.
func (idx *Index) AddPackage(pkg *Package) {
	if idx.Packages == nil {
		idx.Packages = make(map[string][]*Package)
	}
	builds := idx.Packages[pkg.PackageName]
	for i, existing := range builds {
		if existing.VersionCode == pkg.VersionCode {
			builds[i] = pkg
			return
		}
	}
	idx.Packages[pkg.PackageName] = append(builds, pkg)
}
