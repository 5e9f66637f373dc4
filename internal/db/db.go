package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DB wraps the process-wide connection pool. It is constructed once at
// startup and shared by reference with every component that needs the
// record store.
type DB struct {
	*sql.DB
}

func Open(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}
