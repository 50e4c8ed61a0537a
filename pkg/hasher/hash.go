package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of s. Used to store refresh tokens at
// rest without keeping the token itself.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Verify compares a plain value against a stored digest.
func Verify(value, digest string) bool {
	return Hash(value) == digest
}
