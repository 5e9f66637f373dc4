package api

import (
	"errors"
	"net/http"

	"events-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// errorResponse is the JSON shape every API failure uses. Detail is
// operator facing and omitted for auth failures.
type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Message: "the request was malformed",
	})
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{
		Message: "resource not found",
	})
}

func unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
		Message: "you are not authorized to access this content",
		Detail:  detail,
	})
}

func databaseError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Message: "database error",
		Detail:  err.Error(),
	})
}

func oauthError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Message: "oauth error",
		Detail:  err.Error(),
	})
}

// sessionError is the API-shaped rendering of a failed session
// resolution; the web boundary has an HTML twin of this mapping.
func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoCookie):
		unauthorized(c, "no session")
	case errors.Is(err, session.ErrNotFound):
		unauthorized(c, "no session in db")
	default:
		databaseError(c, err)
	}
}
