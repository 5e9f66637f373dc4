package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns the URL-safe base64 encoding of n random bytes.
// Intended for offline tooling; request-path callers should use
// session.GenerateID, which surfaces RNG failures.
func RandomString(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
