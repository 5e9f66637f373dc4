package db

import (
	"context"
	"time"
)

// APIUser is one machine-client credential record. Keys are opaque
// strings checked by exact lookup, never by derived computation.
type APIUser struct {
	APIKey    string    `json:"api_key"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateAPIKey reports whether key is registered. An unknown key is a
// negative result, not an error.
func (d *DB) ValidateAPIKey(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := d.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM api_users WHERE api_key = $1
		)
	`, key).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// InsertAPIUser registers a new machine-client credential.
func (d *DB) InsertAPIUser(ctx context.Context, user APIUser) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO api_users (api_key, user_agent, created_at)
		VALUES ($1, $2, $3)
	`, user.APIKey, user.UserAgent, user.CreatedAt)
	return err
}
