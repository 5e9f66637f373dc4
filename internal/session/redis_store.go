package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		now:    time.Now,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Create(ctx context.Context) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := r.now().UTC()
	s := Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(Lifetime),
		Store:     Bag{},
	}

	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(id), data, Lifetime).Err(); err != nil {
		return "", fmt.Errorf("session: failed to persist: %w", err)
	}

	return id, nil
}

func (r *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: read failed: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Read(ctx context.Context, id string) (Bag, error) {
	s, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// The key TTL normally removes expired records, but a record can
	// linger across clock skew; an expired row is invalid regardless.
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}

	if s.Store == nil {
		s.Store = Bag{}
	}
	return s.Store, nil
}

func (r *RedisStore) Write(ctx context.Context, id string, bag Bag) error {
	s, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if s.Expired(r.now()) {
		return ErrNotFound
	}

	s.Store = bag

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	// Keep the remaining lifetime; writes never extend a session.
	ttl := s.ExpiresAt.Sub(r.now())
	if err := r.client.Set(ctx, r.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: failed to persist: %w", err)
	}

	return nil
}

func (r *RedisStore) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := r.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return fmt.Errorf("session: purge read failed: %w", err)
		}

		var s Session
		if err := json.Unmarshal([]byte(val), &s); err != nil {
			// A malformed record is unreadable either way.
			_ = r.client.Del(ctx, key).Err()
			continue
		}

		if s.Expired(r.now()) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("session: purge delete failed: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("session: purge scan failed: %w", err)
	}
	return nil
}
