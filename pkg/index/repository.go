package index

import (
	"net/url"
	"strings"
)

// FileName is the index file fetched from every repository.
const FileName = "index-v1.json"

// Repository is a configured package repository.
type Repository struct {
	Name     string
	URL      *url.URL
	Priority int
	Enabled  bool
}

// IndexURL is the location of the repository's index file.
func (r *Repository) IndexURL() *url.URL {
	return resolveFile(r.URL, FileName)
}

func resolveFile(base *url.URL, name string) *url.URL {
	u := *base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(name, "/")
	u.RawPath = ""
	return &u
}
