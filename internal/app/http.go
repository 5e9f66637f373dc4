package app

import (
	"context"
	"path/filepath"

	"events-backend/internal/api"
	"events-backend/internal/apikey"
	"events-backend/internal/config"
	"events-backend/internal/middleware"
	"events-backend/internal/oauth"
	"events-backend/internal/session"
	"events-backend/internal/web"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, session.Store, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)

	coordinator := oauth.New(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.DiscordRedirectURL,
	)

	keys := apikey.New(infra.DB)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.EnsureSession(sessionStore))

	// ----------------------------
	// Routes
	// ----------------------------

	webHandler := web.NewHandler(sessionStore, coordinator, cfg.StaticDir)
	webHandler.RegisterRoutes(router)

	apiHandler := api.NewHandler(infra.DB, sessionStore, coordinator, keys)
	apiHandler.RegisterRoutes(router)

	router.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, sessionStore, infra.Close, nil
}
