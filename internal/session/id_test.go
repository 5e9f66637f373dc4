package session

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(id)
	require.NoError(t, err, "id must be URL-safe base64 without padding")
	assert.GreaterOrEqual(t, len(raw), 33)
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate session id generated")
		seen[id] = true
	}
}
