package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"events-backend/internal/middleware"
	"events-backend/internal/oauth"
	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	router     *gin.Engine
	store      *session.MemoryStore
	tokenCalls *atomic.Int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenCalls := &atomic.Int64{}
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	t.Cleanup(tokenServer.Close)

	coordinator := oauth.New("client-id", "client-secret", "https://example.com/oauth/redirect",
		oauth.WithEndpoints("https://provider.example/authorize", tokenServer.URL, "https://provider.example/profile"))

	store := session.NewMemoryStore()

	router := gin.New()
	router.Use(middleware.EnsureSession(store))
	NewHandler(store, coordinator, t.TempDir()).RegisterRoutes(router)

	return &env{router: router, store: store, tokenCalls: tokenCalls}
}

func (e *env) newSession(t *testing.T) string {
	t.Helper()
	id, err := e.store.Create(context.Background())
	require.NoError(t, err)
	return id
}

func (e *env) get(t *testing.T, sessionID, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w.Result()
}

func (e *env) bagString(t *testing.T, sessionID, key string) (string, bool) {
	t.Helper()
	bag, err := e.store.Read(context.Background(), sessionID)
	require.NoError(t, err)
	raw, ok := bag[key]
	if !ok {
		return "", false
	}
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	return s, true
}

func TestLoginRedirectsToProvider(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	resp := e.get(t, sid, "/login?invite=ABC123")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "provider.example", loc.Host)

	invite, ok := e.bagString(t, sid, "invite")
	require.True(t, ok)
	assert.Equal(t, "ABC123", invite)

	csrf, ok := e.bagString(t, sid, oauth.KeyCSRFToken)
	require.True(t, ok)
	assert.Equal(t, loc.Query().Get("state"), csrf)

	_, ok = e.bagString(t, sid, oauth.KeyVerifier)
	assert.True(t, ok)
}

func TestLoginFreshStatePerAttempt(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	e.get(t, sid, "/login")
	csrf1, _ := e.bagString(t, sid, oauth.KeyCSRFToken)
	verifier1, _ := e.bagString(t, sid, oauth.KeyVerifier)

	e.get(t, sid, "/login")
	csrf2, _ := e.bagString(t, sid, oauth.KeyCSRFToken)
	verifier2, _ := e.bagString(t, sid, oauth.KeyVerifier)

	assert.NotEqual(t, csrf1, csrf2)
	assert.NotEqual(t, verifier1, verifier2)
}

func TestLoginMintsSessionWhenAbsent(t *testing.T) {
	e := newEnv(t)

	resp := e.get(t, "", "/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, e.store.Len())
}

func TestLoginWithStaleCookie(t *testing.T) {
	e := newEnv(t)

	// A dead session ID must be replaced transparently: the login
	// handler works against the replacement session.
	resp := e.get(t, "stale-or-forged", "/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, e.store.Len())
}

func TestRedirectStateMismatch(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	e.get(t, sid, "/login")

	resp := e.get(t, sid, "/oauth/redirect?code=auth-code&state=attacker-chosen")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, e.tokenCalls.Load(), "no exchange may be attempted on a CSRF mismatch")
}

func TestRedirectWithoutAttempt(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	resp := e.get(t, sid, "/oauth/redirect?code=auth-code&state=whatever")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRedirectMissingParams(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)
	e.get(t, sid, "/login")

	resp := e.get(t, sid, "/oauth/redirect?code=auth-code")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFullHandshake(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	resp := e.get(t, sid, "/login")
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")

	resp = e.get(t, sid, "/oauth/redirect?code=auth-code&state="+url.QueryEscape(state))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/oauth/finalize", resp.Header.Get("Location"))

	// The CSRF token is consumed by the redirect leg.
	_, ok := e.bagString(t, sid, oauth.KeyCSRFToken)
	assert.False(t, ok)

	resp = e.get(t, sid, "/oauth/finalize")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.EqualValues(t, 1, e.tokenCalls.Load())

	token, ok := e.bagString(t, sid, oauth.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)

	// Verifier and code are single use; both are gone after finalize.
	_, ok = e.bagString(t, sid, oauth.KeyVerifier)
	assert.False(t, ok)
	_, ok = e.bagString(t, sid, oauth.KeyCode)
	assert.False(t, ok)
}

func TestHandshakeReplayFails(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	resp := e.get(t, sid, "/login")
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")

	callback := "/oauth/redirect?code=auth-code&state=" + url.QueryEscape(state)
	resp = e.get(t, sid, callback)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp = e.get(t, sid, "/oauth/finalize")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Re-submitting the consumed code/state pair must fail both legs.
	resp = e.get(t, sid, callback)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = e.get(t, sid, "/oauth/finalize")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.EqualValues(t, 1, e.tokenCalls.Load())
}

func TestLogoutRemovesToken(t *testing.T) {
	e := newEnv(t)
	sid := e.newSession(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	sess, err := session.Resolve(req, e.store)
	require.NoError(t, err)
	require.NoError(t, sess.Set(context.Background(), oauth.KeyToken, "tok-123"))

	resp := e.get(t, sid, "/logout")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, ok := e.bagString(t, sid, oauth.KeyToken)
	assert.False(t, ok)
}
