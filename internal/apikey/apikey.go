package apikey

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Header carries the machine client's key.
const Header = "x-api-key"

var (
	ErrMissingKey       = errors.New("apikey: missing API key header")
	ErrMissingUserAgent = errors.New("apikey: missing user agent header")

	// ErrInvalid covers every lookup miss with one message, so a
	// response can never leak whether a key exists.
	ErrInvalid = errors.New("apikey: invalid credentials")
)

// Lookup is the credential table collaborator. Implementations report
// false for unknown keys rather than an error.
type Lookup interface {
	ValidateAPIKey(ctx context.Context, key string) (bool, error)
}

// Authenticator validates machine-client credentials. It is stateless;
// no session is involved on this path.
type Authenticator struct {
	creds Lookup
}

func New(creds Lookup) *Authenticator {
	return &Authenticator{creds: creds}
}

// Validate reports whether key is registered.
func (a *Authenticator) Validate(ctx context.Context, key string) (bool, error) {
	ok, err := a.creds.ValidateAPIKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("apikey: lookup: %w", err)
	}
	return ok, nil
}

// Authenticate checks the request's API credentials and returns the
// caller's declared agent string as its identity for audit logging.
// A missing User-Agent is a malformed request, distinct from an
// invalid key.
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	key := r.Header.Get(Header)
	if key == "" {
		return "", ErrMissingKey
	}

	agent := r.Header.Get("User-Agent")
	if agent == "" {
		return "", ErrMissingUserAgent
	}

	ok, err := a.Validate(r.Context(), key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalid
	}

	return agent, nil
}
