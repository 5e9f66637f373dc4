package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateID generates a cryptographically secure session ID.
// 33 bytes = 264 bits of entropy, encoded without padding.
func GenerateID() (string, error) {

	const size = 33

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		// No session can be safely minted without secure randomness.
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
