package session

import (
	"encoding/json"
	"time"
)

// Lifetime is the absolute session lifetime. Expiry is fixed at
// creation and never extended.
const Lifetime = 7 * 24 * time.Hour

// Bag is a session's attribute store: string keys mapped to arbitrary
// JSON values.
type Bag map[string]json.RawMessage

// clone returns an independent copy so callers can mutate freely.
func (b Bag) clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Session is a persisted session record.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires"`
	Store     Bag       `json:"store"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
