package db

import (
	"context"
)

const migration = `
CREATE TABLE IF NOT EXISTS groups (
    id uuid PRIMARY KEY,
    name text NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    id uuid PRIMARY KEY,
    group_id uuid NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    name text NOT NULL,
    description text NOT NULL,
    starts_at timestamptz NOT NULL,
    ends_at timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS events_group_id_idx
ON events (group_id);

CREATE TABLE IF NOT EXISTS api_users (
    api_key text PRIMARY KEY,
    user_agent text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

// RunMigration applies the idempotent startup schema.
func RunMigration(ctx context.Context, db *DB) error {
	_, err := db.ExecContext(ctx, migration)
	return err
}
