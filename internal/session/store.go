package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no live session exists for an ID.
// Expired-but-not-yet-purged records are reported as not found too, so
// validity never depends on sweep timing.
var ErrNotFound = errors.New("session: not found")

// Store defines how sessions are stored and retrieved. The production
// implementation is Redis-backed; tests substitute MemoryStore.
type Store interface {
	// Create mints a session with a fresh random ID and an expiry of
	// now + Lifetime, persists it, and returns the ID.
	Create(ctx context.Context) (string, error)

	// Read returns the attribute bag for id, or ErrNotFound when the
	// record is absent or past its expiry.
	Read(ctx context.Context, id string) (Bag, error)

	// Write overwrites the attribute bag for id. Concurrent writes to
	// the same ID are last-write-wins; sessions are single-user and
	// low-concurrency, so no conflict detection is attempted.
	Write(ctx context.Context, id string, bag Bag) error

	// Purge deletes every record whose expiry has passed. Runs on a
	// schedule outside the request path, never during a request.
	Purge(ctx context.Context) error
}
