package session

import (
	"context"
	"time"

	"events-backend/internal/logger"
)

// Sweeper periodically purges expired session records.
type Sweeper struct {
	store    Store
	interval time.Duration
}

func NewSweeper(store Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{store: store, interval: interval}
}

// Run blocks until ctx is cancelled, purging on every tick. A failed
// sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Purge(ctx); err != nil {
				logger.Error("session purge failed", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}
}
