package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Group struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CreateGroup struct {
	Name string `json:"name" binding:"required"`
}

func (d *DB) AllGroups(ctx context.Context) ([]Group, error) {
	rows, err := d.QueryContext(ctx, `SELECT id, name FROM groups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetGroup returns nil when no group exists with the given ID.
func (d *DB) GetGroup(ctx context.Context, id uuid.UUID) (*Group, error) {
	var g Group
	err := d.QueryRowContext(ctx, `
		SELECT id, name FROM groups WHERE id = $1
	`, id).Scan(&g.ID, &g.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (d *DB) InsertGroup(ctx context.Context, create CreateGroup) (uuid.UUID, error) {
	id := uuid.New()

	_, err := d.ExecContext(ctx, `
		INSERT INTO groups (id, name) VALUES ($1, $2)
	`, id, create.Name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db: insert group: %w", err)
	}

	return id, nil
}

func (d *DB) UpdateGroup(ctx context.Context, id uuid.UUID, create CreateGroup) error {
	_, err := d.ExecContext(ctx, `
		UPDATE groups SET name = $2 WHERE id = $1
	`, id, create.Name)
	return err
}

func (d *DB) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	_, err := d.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}
