// Package testutil builds signed package archives and repository fixtures for
// tests.
package testutil

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/digitorus/pkcs7"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/droidrepo/pkg/archive"
)

// Package describes an archive to build.
type Package struct {
	Name        string
	VersionCode int64
	VersionName string
	Permissions []string
	// Signers are DER certificates written, in order, to META-INF/CERT.RSA.
	Signers [][]byte
}

type manifest struct {
	PackageName string   `json:"packageName"`
	VersionCode int64    `json:"versionCode"`
	VersionName string   `json:"versionName,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// NewCertificate returns a self-signed DER certificate for commonName.
func NewCertificate(t *testing.T, commonName string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return der
}

// BuildPackage writes p as a zip archive named <name>_<versionCode>.apk into
// dir and returns its path.
func BuildPackage(t *testing.T, dir string, p Package) string {
	t.Helper()

	src := t.TempDir()
	data, err := json.Marshal(manifest{
		PackageName: p.Name,
		VersionCode: p.VersionCode,
		VersionName: p.VersionName,
		Permissions: p.Permissions,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, "manifest.json"), data, 0o644))

	if len(p.Signers) > 0 {
		var chain []byte
		for _, c := range p.Signers {
			chain = append(chain, c...)
		}
		block, err := pkcs7.DegenerateCertificate(chain)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(src, "META-INF"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "META-INF", "CERT.RSA"), block, 0o644))
	}

	name := p.Name
	if name == "" {
		name = "package"
	}
	out := filepath.Join(dir, name+"_"+strconv.FormatInt(p.VersionCode, 10)+".apk")
	require.NoError(t, archive.Create(context.Background(), src, out))
	return out
}

// WriteFile writes raw content under dir and returns its path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
