// Package checksum detects whether generated content changed between writes.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Last remembers the digest of the content most recently written.
// The zero value has seen nothing.
type Last struct {
	sum string
}

// Changed reports whether data differs from the last recorded content.
func (l *Last) Changed(data []byte) bool {
	return l.sum == "" || Sum(data) != l.sum
}

// Record marks data as written.
func (l *Last) Record(data []byte) {
	l.sum = Sum(data)
}
