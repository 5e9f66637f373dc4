package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCookie is returned by Resolve when the request carries no
// session cookie at all.
var ErrNoCookie = errors.New("session: no session cookie")

// Handle is a request-scoped view of one session. It holds the decoded
// attribute bag plus a reference to the shared store, and writes every
// mutation straight through, so a successful Set or Remove is durable
// before it returns. A Handle must not outlive its request.
type Handle struct {
	id    string
	bag   Bag
	store Store
}

// Resolve builds a Handle from the request's session cookie. The web
// and API boundaries share this one resolution path and differ only in
// how they render the returned errors.
func Resolve(r *http.Request, store Store) (*Handle, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoCookie
	}

	bag, err := store.Read(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}

	return &Handle{id: cookie.Value, bag: bag, store: store}, nil
}

func (h *Handle) ID() string {
	return h.id
}

// Get decodes the value stored under key into v. It reports false when
// the key is absent, and an error when the stored shape does not match.
func (h *Handle) Get(key string, v any) (bool, error) {
	raw, ok := h.bag[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("session: decode %q: %w", key, err)
	}
	return true, nil
}

// GetString is a convenience for the common string-valued attributes.
func (h *Handle) GetString(key string) (string, bool, error) {
	var s string
	ok, err := h.Get(key, &s)
	return s, ok, err
}

// Set stores value under key and persists the full bag immediately.
func (h *Handle) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	h.bag[key] = raw
	return h.store.Write(ctx, h.id, h.bag)
}

// Remove deletes key and persists. Removing an absent key is a no-op
// write, not an error.
func (h *Handle) Remove(ctx context.Context, key string) error {
	delete(h.bag, key)
	return h.store.Write(ctx, h.id, h.bag)
}
