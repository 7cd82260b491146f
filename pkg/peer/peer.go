// Package peer describes nearby repositories reachable without the internet,
// such as devices discovered over Wi-Fi service discovery or Bluetooth.
package peer

import (
	"net/url"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// SchemeBluetooth is the URI scheme for repositories served over Bluetooth.
const SchemeBluetooth = "bluetooth"

// Descriptor identifies a peer repository. Two descriptors denote the same
// peer when their fingerprints match, whatever their names or addresses.
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	Address     string `json:"address" yaml:"address"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Equal reports whether d and other are the same peer.
func (d Descriptor) Equal(other Descriptor) bool {
	return strings.EqualFold(d.Fingerprint, other.Fingerprint)
}

func (d Descriptor) String() string {
	return d.Name
}

// RepoURL returns the repository address the peer advertises.
func (d Descriptor) RepoURL() (*url.URL, error) {
	u, err := url.Parse(d.Address)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrRepositoryURL, "peer %q: %v", d.Name, err)
	}
	return u, nil
}

// FromURI builds a descriptor from a bluetooth://<address>/<path> URI. The
// optional "name" and "fingerprint" query parameters fill the matching
// fields. The returned path is the resource to fetch from the peer.
func FromURI(u *url.URL) (Descriptor, string, error) {
	if u == nil || u.Scheme != SchemeBluetooth {
		return Descriptor{}, "", errors.Wrap(errors.ErrUnsupportedScheme, "not a bluetooth URI")
	}
	if u.Host == "" {
		return Descriptor{}, "", errors.Wrapf(errors.ErrRepositoryURL, "%s: missing peer address", u.Redacted())
	}

	q := u.Query()
	d := Descriptor{
		Name:        q.Get("name"),
		Address:     u.Host,
		Fingerprint: q.Get("fingerprint"),
	}
	if d.Name == "" {
		d.Name = u.Host
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return d, path, nil
}

// Contains reports whether peers already holds a descriptor equal to d.
func Contains(peers []Descriptor, d Descriptor) bool {
	for _, p := range peers {
		if p.Equal(d) {
			return true
		}
	}
	return false
}
