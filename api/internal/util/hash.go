package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the lowercase hex SHA-256 of b. Used as the cache key
// for hint lookups and for the webhook path.
func SHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// ShortHash is SHA256Hex truncated to 16 chars, enough for an unguessable
// URL path segment.
func ShortHash(s string) string {
	return SHA256Hex([]byte(s))[:16]
}
