// Package signature compares the signing certificates of a candidate package
// with those of the running application.
package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Set is an ordered list of raw DER certificates. Two sets are equal only if
// their certificates appear in the same order.
type Set [][]byte

// Bytes concatenates the certificates in declared order.
func (s Set) Bytes() []byte {
	var buf bytes.Buffer
	for _, c := range s {
		buf.Write(c)
	}
	return buf.Bytes()
}

// Equal compares the concatenated encodings byte for byte.
func (s Set) Equal(other Set) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Hex is the lowercase hex encoding of Bytes.
func (s Set) Hex() string {
	return hex.EncodeToString(s.Bytes())
}

// Fingerprint is the SHA-256 of Bytes, hex encoded.
func (s Set) Fingerprint() string {
	sum := sha256.Sum256(s.Bytes())
	return hex.EncodeToString(sum[:])
}

// Empty reports whether the set carries no certificate bytes.
func (s Set) Empty() bool {
	return len(s.Bytes()) == 0
}
