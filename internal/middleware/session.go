package middleware

import (
	"errors"
	"net/http"
	"strings"

	"events-backend/internal/logger"
	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// apiPrefix marks machine routes. API clients authenticate with keys,
// so no session row is ever minted for them.
const apiPrefix = "/api"

// EnsureSession guarantees every interactive request carries a live
// session before dispatch:
//
//  1. A cookie referencing a live session passes through unmodified.
//  2. A missing, stale, or forged cookie on a non-API path mints a new
//     session and attaches its Set-Cookie header.
//  3. API paths pass through untouched either way.
//
// A storage failure aborts the request with a 500; it is not retried.
func EnsureSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Request.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			_, err := store.Read(c.Request.Context(), cookie.Value)
			switch {
			case err == nil:
				c.Next()
				return
			case !errors.Is(err, session.ErrNotFound):
				logger.Error("session lookup failed", map[string]any{
					"error": err.Error(),
				})
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			// Not found: fall through and mint a fresh session.
		}

		if strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
			c.Next()
			return
		}

		id, err := store.Create(c.Request.Context())
		if err != nil {
			logger.Error("session create failed", map[string]any{
				"error": err.Error(),
			})
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		session.SetCookie(c.Writer, id)

		// Make the new session visible to extractors within this same
		// request, not just the next one. Request.Cookie returns the
		// first match, so any stale session cookie must be dropped
		// rather than merely appended after.
		rest := make([]*http.Cookie, 0, len(c.Request.Cookies()))
		for _, ck := range c.Request.Cookies() {
			if ck.Name != session.CookieName {
				rest = append(rest, ck)
			}
		}
		c.Request.Header.Del("Cookie")
		for _, ck := range rest {
			c.Request.AddCookie(ck)
		}
		c.Request.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})

		c.Next()
	}
}
