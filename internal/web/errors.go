package web

import (
	"errors"
	"net/http"

	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
)

const errorPage = `<!doctype html><html lang="en"><body><p>%s</p></body></html>`

// internalError renders the minimal HTML page interactive routes get
// for storage, randomness, and upstream failures. detail is operator
// facing and never includes caller-supplied input.
func internalError(c *gin.Context, detail string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusInternalServerError, errorPage, "Internal server error: "+detail)
	c.Abort()
}

// protocolError is the uniform response for CSRF mismatches and missing
// or already-consumed handshake state. It deliberately carries no
// detail about which check failed.
func protocolError(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusUnauthorized, errorPage, "The login attempt could not be verified. Please log in again.")
	c.Abort()
}

// sessionError maps a failed session resolution. The middleware mints
// sessions for every interactive request, so a missing one here is an
// internal inconsistency, not a user mistake.
func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoCookie), errors.Is(err, session.ErrNotFound):
		internalError(c, "no session")
	default:
		internalError(c, "database error")
	}
}
