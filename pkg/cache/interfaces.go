package cache

import "time"

// Manager cleans and measures the cache directory. It covers the cached
// indexes, the downloaded packages and leftover temp downloads.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// CleanOptions selects the areas to clean. Nothing selected means all.
type CleanOptions struct {
	All       bool
	Indexes   bool
	Packages  bool
	Downloads bool
}

// CleanResult holds the bytes freed per area.
type CleanResult struct {
	TotalFreed    int64 `json:"total_freed"`
	IndexFreed    int64 `json:"index_freed"`
	PackageFreed  int64 `json:"package_freed"`
	DownloadFreed int64 `json:"download_freed"`
}

// Info is a snapshot of the cache content.
type Info struct {
	Directory     string    `json:"directory"`
	TotalSize     int64     `json:"total_size"`
	IndexSize     int64     `json:"index_size"`
	IndexFiles    int       `json:"index_files"`
	PackageSize   int64     `json:"package_size"`
	PackageFiles  int       `json:"package_files"`
	DownloadSize  int64     `json:"download_size"`
	DownloadFiles int       `json:"download_files"`
	LastCleaned   time.Time `json:"last_cleaned,omitzero"`
}

var _ Manager = (*DefaultManager)(nil)
