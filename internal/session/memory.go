package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and
// single-process development setups; it satisfies the same contract as
// RedisStore, including treating expired records as not found.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context) (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}

	now := m.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(Lifetime),
		Store:     Bag{},
	}
	return id, nil
}

func (m *MemoryStore) Read(ctx context.Context, id string) (Bag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.Expired(m.now()) {
		return nil, ErrNotFound
	}
	return s.Store.clone(), nil
}

func (m *MemoryStore) Write(ctx context.Context, id string, bag Bag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.Expired(m.now()) {
		return ErrNotFound
	}
	s.Store = bag.clone()
	return nil
}

func (m *MemoryStore) Purge(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
	return nil
}

// Len reports the number of stored records, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
