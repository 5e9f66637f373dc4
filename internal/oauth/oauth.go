package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	discordCDN          = "https://cdn.discordapp.com"
	discordAuthorizeURL = "https://discord.com/oauth2/authorize"
	discordTokenURL     = "https://discord.com/api/oauth2/token"
	discordProfileURL   = "https://discord.com/api/users/@me"
)

// Session attribute keys used across the three-leg handshake.
// KeyCSRFToken and KeyVerifier are single use; KeyCode only lives
// between the redirect and finalize steps.
const (
	KeyCSRFToken = "csrf_token"
	KeyVerifier  = "verifier"
	KeyCode      = "code"
	KeyToken     = "token"
)

var (
	// ErrTokenExchange means the authorization-code exchange failed.
	// The handshake is over; the client restarts from /login.
	ErrTokenExchange = errors.New("oauth: failed to get token")

	// ErrFailedQuery covers transport and decode failures while using
	// an already obtained token.
	ErrFailedQuery = errors.New("oauth: failed to query with token")
)

// Coordinator drives the Authorization-Code-with-PKCE handshake against
// the provider and queries its profile endpoint with the resulting
// bearer token. It holds no per-handshake state; that lives in the
// caller's session.
type Coordinator struct {
	cfg        *oauth2.Config
	profileURL string
	client     *http.Client
}

// Option overrides a Coordinator default.
type Option func(*Coordinator)

// WithEndpoints points the coordinator at a different provider, e.g. a
// stub during development.
func WithEndpoints(authURL, tokenURL, profileURL string) Option {
	return func(c *Coordinator) {
		c.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
		c.profileURL = profileURL
	}
}

func New(clientID, clientSecret, redirectURL string, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  discordAuthorizeURL,
				TokenURL: discordTokenURL,
			},
		},
		profileURL: discordProfileURL,
		// Provider calls are bounded and never follow redirects, so a
		// hung or misbehaving provider cannot pin request handlers.
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a handshake. It returns a fresh CSRF state, a PKCE
// verifier, and the provider authorization URL embedding the state and
// the S256 challenge derived from that verifier. The caller persists
// state and verifier for the callback legs.
func (c *Coordinator) Begin() (authURL, state, verifier string, err error) {
	state, err = randomToken()
	if err != nil {
		return "", "", "", err
	}

	verifier = oauth2.GenerateVerifier()
	authURL = c.cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return authURL, state, verifier, nil
}

// Exchange redeems an authorization code together with its PKCE
// verifier for a bearer access token. Failures are terminal for the
// handshake and are not retried.
func (c *Coordinator) Exchange(ctx context.Context, code, verifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	token, err := c.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	return token.AccessToken, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oauth: failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
