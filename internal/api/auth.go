package api

import (
	"errors"

	"events-backend/internal/apikey"
	"events-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// requireKey gates a route behind a valid API key. The caller's
// declared agent string is logged for audit.
func requireKey(auth *apikey.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, err := auth.Authenticate(c.Request)
		if err != nil {
			switch {
			case errors.Is(err, apikey.ErrMissingKey):
				unauthorized(c, "missing API key header")
			case errors.Is(err, apikey.ErrMissingUserAgent):
				unauthorized(c, "missing user agent header")
			case errors.Is(err, apikey.ErrInvalid):
				logger.Warn("rejected API key", map[string]any{
					"ip": c.ClientIP(),
				})
				unauthorized(c, "API key was invalid")
			default:
				databaseError(c, err)
			}
			return
		}

		logger.Info("api key accepted", map[string]any{
			"agent":  agent,
			"ip":     c.ClientIP(),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})

		c.Next()
	}
}
