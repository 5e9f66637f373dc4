package app

import (
	"context"
	"net/http"
	"time"

	"events-backend/internal/config"
	"events-backend/internal/session"
)

// sweepInterval is how often expired session records are purged.
const sweepInterval = time.Hour

type App struct {
	httpServer *http.Server
	sweeper    *session.Sweeper
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, store, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer: server,
		sweeper:    session.NewSweeper(store, sweepInterval),
		cleanup:    cleanup,
	}, nil
}

// Run serves HTTP and sweeps expired sessions until the server stops.
func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Run(ctx)
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
