package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	bag, err := store.Read(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, bag)
}

func TestMemoryStoreReadUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx)
	require.NoError(t, err)

	bag := Bag{"token": json.RawMessage(`"abc"`)}
	require.NoError(t, store.Write(ctx, id, bag))

	got, err := store.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, bag, got)

	// The store must hand out the bag last written, not a shared copy.
	got["token"] = json.RawMessage(`"mutated"`)
	again, err := store.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`"abc"`), again["token"])
}

func TestMemoryStoreExpiredReadInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx)
	require.NoError(t, err)

	// An expired record is invalid even before any purge runs.
	store.now = func() time.Time { return time.Now().Add(Lifetime + time.Minute) }

	_, err = store.Read(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Write(ctx, id, Bag{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePurge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	expired, err := store.Create(ctx)
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(Lifetime + time.Minute) }

	live, err := store.Create(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, store.Len())
	require.NoError(t, store.Purge(ctx))
	assert.Equal(t, 1, store.Len())

	_, err = store.Read(ctx, expired)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Read(ctx, live)
	assert.NoError(t, err)
}
