// Package auth applies repository credentials to outgoing HTTP requests.
package auth

import "net/http"

// Authenticator defines the interface for applying authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type represents the type of authentication.
type Type string

// Authentication types.
const (
	// NoAuthType marks an anonymous request.
	NoAuthType Type = "none"
	// BasicAuthType represents HTTP Basic Authentication.
	BasicAuthType Type = "basic"
)

// BasicAuth represents HTTP Basic Authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Present reports whether both halves of the credential are set.
func (b BasicAuth) Present() bool {
	return b.Username != "" && b.Password != ""
}

// Apply sets "Authorization: Basic base64(user:pass)" when both username and
// password are present and leaves the request untouched otherwise.
func (b BasicAuth) Apply(req *http.Request) error {
	if !b.Present() {
		return nil
	}
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// Type returns BasicAuthType.
func (b BasicAuth) Type() Type { return BasicAuthType }

// Anonymous never adds credentials.
type Anonymous struct{}

// Apply is a no-op.
func (Anonymous) Apply(*http.Request) error { return nil }

// Type returns NoAuthType.
func (Anonymous) Type() Type { return NoAuthType }
