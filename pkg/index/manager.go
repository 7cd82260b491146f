package index

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// Resolution is a package picked from one repository.
type Resolution struct {
	Repository *Repository
	Package    *Package
	URL        *url.URL
}

// Manager reads the synchronized index files of a set of repositories.
type Manager struct {
	repositories []*Repository
	indexDir     string

	mu      sync.Mutex
	indexes map[string]*Index
}

// NewManager creates a manager over indexes stored as <indexDir>/<name>.json.
func NewManager(repos []*Repository, indexDir string) *Manager {
	return &Manager{
		repositories: repos,
		indexDir:     indexDir,
		indexes:      make(map[string]*Index, len(repos)),
	}
}

// ListRepositories returns the configured repositories.
func (m *Manager) ListRepositories() []*Repository {
	return m.repositories
}

// GetRepository returns the repository called name, or nil.
func (m *Manager) GetRepository(name string) *Repository {
	for _, r := range m.repositories {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// IndexPath is where the index of the named repository is stored.
func (m *Manager) IndexPath(name string) string {
	return filepath.Join(m.indexDir, name+".json")
}

// GetCacheAge returns how long ago the index of name was written.
func (m *Manager) GetCacheAge(name string) (time.Duration, error) {
	if m.GetRepository(name) == nil {
		return -1, errors.ErrRepositoryNotFoundWithName(name)
	}
	stat, err := os.Stat(m.IndexPath(name))
	if err != nil {
		return -1, errors.Wrapf(err, "cannot stat index of %s", name)
	}
	return time.Since(stat.ModTime()), nil
}

// GetIndex parses the stored index of name. Parsed indexes are kept until
// Invalidate is called.
func (m *Manager) GetIndex(name string) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.indexes[name]; ok {
		return idx, nil
	}
	idx, err := ParseIndexFromFile(m.IndexPath(name))
	if err != nil {
		return nil, err
	}
	m.indexes[name] = idx
	return idx, nil
}

// Invalidate drops the parsed index of name so the next read sees a fresh
// sync.
func (m *Manager) Invalidate(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexes, name)
}

// FindPackages returns, per repository name, the builds of name listed by
// enabled repositories. Repositories without a readable index are skipped.
func (m *Manager) FindPackages(name string) (map[string][]*Package, error) {
	found := make(map[string][]*Package)
	for _, repo := range m.repositories {
		if !repo.Enabled {
			continue
		}
		idx, err := m.GetIndex(repo.Name)
		if err != nil {
			logger.Debug("Skipping repository without index", logrus.Fields{"repository": repo.Name, "error": err})
			continue
		}
		if pkgs := idx.FindPackages(name); len(pkgs) > 0 {
			found[repo.Name] = pkgs
		}
	}
	if len(found) == 0 {
		return nil, errors.Wrap(ErrPackageNotFound, name)
	}
	return found, nil
}

// ResolvePackage picks a build of name. The highest-priority repository that
// lists a matching build wins, and within it the newest build. An empty
// constraint matches every build.
func (m *Manager) ResolvePackage(name, versionConstraint string) (*Resolution, error) {
	found, err := m.FindPackages(name)
	if err != nil {
		return nil, err
	}

	repos := make([]*Repository, 0, len(found))
	for repoName := range found {
		repos = append(repos, m.GetRepository(repoName))
	}
	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].Priority != repos[j].Priority {
			return repos[i].Priority > repos[j].Priority
		}
		return repos[i].Name < repos[j].Name
	})

	for _, repo := range repos {
		var best *Package
		for _, pkg := range found[repo.Name] {
			if versionConstraint != "" && !pkg.MatchVersion(versionConstraint) {
				continue
			}
			if pkg.Newer(best) {
				best = pkg
			}
		}
		if best != nil {
			return &Resolution{Repository: repo, Package: best, URL: best.GetURL(repo.URL)}, nil
		}
	}
	return nil, errors.Wrapf(ErrPackageNotFound, "%s %s", name, versionConstraint)
}
