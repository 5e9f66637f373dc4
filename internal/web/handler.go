package web

import (
	"net/http"
	"path/filepath"

	"events-backend/internal/logger"
	"events-backend/internal/oauth"
	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// keyInvite is an application attribute carried through login
// unaffected by the handshake protocol state.
const keyInvite = "invite"

// Handler serves the interactive routes: the frontend passthrough and
// the OAuth login dance. Failures render HTML, not JSON.
type Handler struct {
	store     session.Store
	oauth     *oauth.Coordinator
	staticDir string
}

func NewHandler(store session.Store, coordinator *oauth.Coordinator, staticDir string) *Handler {
	return &Handler{
		store:     store,
		oauth:     coordinator,
		staticDir: staticDir,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/login", h.login)
	r.GET("/oauth/redirect", h.redirect)
	r.GET("/oauth/finalize", h.finalize)
	r.GET("/logout", h.logout)
}

func (h *Handler) index(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "index.html"))
}

// login starts a handshake: it stores a fresh CSRF token and PKCE
// verifier in the session, then redirects to the provider.
func (h *Handler) login(c *gin.Context) {
	sess, err := session.Resolve(c.Request, h.store)
	if err != nil {
		sessionError(c, err)
		return
	}

	ctx := c.Request.Context()

	if invite := c.Query("invite"); invite != "" {
		if err := sess.Set(ctx, keyInvite, invite); err != nil {
			internalError(c, "failed to store invite")
			return
		}
	}

	authURL, state, verifier, err := h.oauth.Begin()
	if err != nil {
		internalError(c, "failed to start login")
		return
	}

	if err := sess.Set(ctx, oauth.KeyCSRFToken, state); err != nil {
		internalError(c, "failed to store login attempt")
		return
	}
	if err := sess.Set(ctx, oauth.KeyVerifier, verifier); err != nil {
		internalError(c, "failed to store login attempt")
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// redirect is the provider callback. It validates the echoed state
// against the stored CSRF token, consumes the token, and carries the
// authorization code forward to the finalize step.
func (h *Handler) redirect(c *gin.Context) {
	sess, err := session.Resolve(c.Request, h.store)
	if err != nil {
		sessionError(c, err)
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		protocolError(c)
		return
	}

	csrfToken, ok, err := sess.GetString(oauth.KeyCSRFToken)
	if err != nil {
		internalError(c, "failed to read login attempt")
		return
	}
	if !ok {
		// No attempt was started, or its state was already consumed.
		protocolError(c)
		return
	}

	// Byte-exact comparison; anything looser reopens the CSRF hole.
	if state != csrfToken {
		logger.Warn("oauth state mismatch", map[string]any{
			"session": sess.ID(),
		})
		protocolError(c)
		return
	}

	ctx := c.Request.Context()

	// The token is single use, consumed before anything else happens.
	if err := sess.Remove(ctx, oauth.KeyCSRFToken); err != nil {
		internalError(c, "failed to update login attempt")
		return
	}
	if err := sess.Set(ctx, oauth.KeyCode, code); err != nil {
		internalError(c, "failed to update login attempt")
		return
	}

	c.Redirect(http.StatusFound, "/oauth/finalize")
}

// finalize exchanges the carried code and PKCE verifier for a bearer
// token, stores it, and cleans up the consumed handshake state.
func (h *Handler) finalize(c *gin.Context) {
	sess, err := session.Resolve(c.Request, h.store)
	if err != nil {
		sessionError(c, err)
		return
	}

	verifier, ok, err := sess.GetString(oauth.KeyVerifier)
	if err != nil {
		internalError(c, "failed to read login attempt")
		return
	}
	if !ok {
		protocolError(c)
		return
	}

	code, ok, err := sess.GetString(oauth.KeyCode)
	if err != nil {
		internalError(c, "failed to read login attempt")
		return
	}
	if !ok {
		protocolError(c)
		return
	}

	ctx := c.Request.Context()

	token, err := h.oauth.Exchange(ctx, code, verifier)
	if err != nil {
		logger.Error("token exchange failed", map[string]any{
			"error": err.Error(),
		})
		internalError(c, "token exchange failed")
		return
	}

	if err := sess.Set(ctx, oauth.KeyToken, token); err != nil {
		internalError(c, "failed to store token")
		return
	}
	if err := sess.Remove(ctx, oauth.KeyVerifier); err != nil {
		internalError(c, "failed to update login attempt")
		return
	}
	if err := sess.Remove(ctx, oauth.KeyCode); err != nil {
		internalError(c, "failed to update login attempt")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// logout drops the stored token. The session itself survives until its
// own expiry.
func (h *Handler) logout(c *gin.Context) {
	sess, err := session.Resolve(c.Request, h.store)
	if err != nil {
		sessionError(c, err)
		return
	}

	if err := sess.Remove(c.Request.Context(), oauth.KeyToken); err != nil {
		internalError(c, "failed to update session")
		return
	}

	c.Redirect(http.StatusFound, "/")
}
