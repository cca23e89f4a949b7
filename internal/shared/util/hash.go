package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSessionKey returns a filesystem-safe identifier for a session ID.
func HashSessionKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ContentHash returns the hex sha256 of a document payload, used as part of
// document identity.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
