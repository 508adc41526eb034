// Package checksum fingerprints archive documents for ETags and change detection.
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

// ETag returns Sum quoted for use in an HTTP ETag header.
func ETag(sum string) string {
	return `"` + sum + `"`
}
