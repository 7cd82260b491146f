// Package database provides a JSON-backed store of the applications present
// on the device, including data-only remnants of uninstalled applications,
// and the package renames the platform knows about.
package database

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// Flags describe an application entry.
type Flags uint32

// Application flags.
const (
	// FlagInstalled is unset for entries that only keep data behind.
	FlagInstalled Flags = 1 << iota
	FlagSystem
)

// ApplicationInfo is the stored metadata of one application.
type ApplicationInfo struct {
	PackageName string    `json:"package_name"`
	VersionCode int64     `json:"version_code"`
	VersionName string    `json:"version_name,omitempty"`
	Flags       Flags     `json:"flags"`
	SourceDir   string    `json:"source_dir,omitempty"`
	Signatures  [][]byte  `json:"signatures,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Installed reports whether FlagInstalled is set.
func (a *ApplicationInfo) Installed() bool {
	return a.Flags&FlagInstalled != 0
}

// Clone returns a deep copy.
func (a *ApplicationInfo) Clone() *ApplicationInfo {
	c := *a
	if a.Signatures != nil {
		c.Signatures = make([][]byte, len(a.Signatures))
		for i, s := range a.Signatures {
			c.Signatures[i] = append([]byte(nil), s...)
		}
	}
	return &c
}

// Store is the application database. It is safe for concurrent use.
type Store struct {
	FormatVersion string                      `json:"format_version"`
	LastUpdate    time.Time                   `json:"last_update"`
	Applications  map[string]*ApplicationInfo `json:"applications"`
	// Renames maps an old package name to its current one.
	Renames map[string]string `json:"renames,omitempty"`

	rwMutex sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		FormatVersion: "1",
		LastUpdate:    time.Now(),
		Applications:  make(map[string]*ApplicationInfo),
		Renames:       make(map[string]string),
	}
}

// Open loads the store at dbPath, returning an empty store if it does not
// exist yet.
func Open(dbPath string) (*Store, error) {
	s := NewStore()
	if err := s.Load(dbPath); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the store's content with the file at dbPath. A missing
// file leaves the store unchanged.
func (s *Store) Load(dbPath string) error {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("database path must be absolute: %s: %w", dbPath, errors.ErrInvalidPath)
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return s.parse(file)
}

// Save writes the store to dbPath through a temporary file and rename.
func (s *Store) Save(dbPath string) (err error) {
	cleanPath := filepath.Clean(dbPath)
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("database path must be absolute: %s: %w", dbPath, errors.ErrInvalidPath)
	}
	dbDir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dbDir, fsutil.DirModeSecure); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	s.rwMutex.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.rwMutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal database to JSON: %w", err)
	}

	tmpFile, err := os.CreateTemp(dbDir, fsutil.AppName+"-db-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dbDir, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file to disk: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, cleanPath); err != nil {
		return fmt.Errorf("failed to rename temporary file to %s: %w", cleanPath, err)
	}
	return nil
}

// Find returns a copy of the entry for name, installed or not.
func (s *Store) Find(name string) (*ApplicationInfo, bool) {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	app, ok := s.Applications[name]
	if !ok {
		return nil, false
	}
	return app.Clone(), true
}

// Put inserts or replaces an entry.
func (s *Store) Put(app *ApplicationInfo) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	stored := app.Clone()
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	s.Applications[app.PackageName] = stored
	s.LastUpdate = time.Now()
}

// MarkUninstalled clears FlagInstalled, keeping the entry as a data-only
// remnant.
func (s *Store) MarkUninstalled(name string) error {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	app, ok := s.Applications[name]
	if !ok {
		return fmt.Errorf("application %s: %w", name, errors.ErrApplicationNotFound)
	}
	app.Flags &^= FlagInstalled
	app.UpdatedAt = time.Now()
	s.LastUpdate = app.UpdatedAt
	return nil
}

// Remove deletes an entry including its data.
func (s *Store) Remove(name string) bool {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	if _, ok := s.Applications[name]; !ok {
		return false
	}
	delete(s.Applications, name)
	s.LastUpdate = time.Now()
	return true
}

// List returns copies of all entries sorted by package name.
func (s *Store) List() []*ApplicationInfo {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()

	out := make([]*ApplicationInfo, 0, len(s.Applications))
	for _, app := range s.Applications {
		out = append(out, app.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackageName < out[j].PackageName })
	return out
}

// AddRename records that oldName is now known as currentName.
func (s *Store) AddRename(oldName, currentName string) {
	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	if s.Renames == nil {
		s.Renames = make(map[string]string)
	}
	s.Renames[oldName] = currentName
	s.LastUpdate = time.Now()
}

// CurrentName returns the name oldName was renamed to, or "" if none.
func (s *Store) CurrentName(oldName string) string {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	return s.Renames[oldName]
}

func (s *Store) parse(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	s.rwMutex.Lock()
	defer s.rwMutex.Unlock()

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse database: %w", err)
	}
	if s.Applications == nil {
		s.Applications = make(map[string]*ApplicationInfo)
	}
	if s.Renames == nil {
		s.Renames = make(map[string]string)
	}
	return nil
}
