package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperPurgesExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemoryStore()
	_, err := store.Create(ctx)
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(Lifetime + time.Minute) }

	sweeper := NewSweeper(store, 10*time.Millisecond)
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}
