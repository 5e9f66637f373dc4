package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type CreateEvent struct {
	GroupID     uuid.UUID `json:"group_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

func (d *DB) AllEvents(ctx context.Context) ([]Event, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, group_id, name, description, starts_at, ends_at
		FROM events
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// EventsByGroup returns the events belonging to one group.
func (d *DB) EventsByGroup(ctx context.Context, groupID uuid.UUID) ([]Event, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, group_id, name, description, starts_at, ends_at
		FROM events
		WHERE group_id = $1
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEvent returns nil when no event exists with the given ID.
func (d *DB) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var e Event
	err := d.QueryRowContext(ctx, `
		SELECT id, group_id, name, description, starts_at, ends_at
		FROM events
		WHERE id = $1
	`, id).Scan(&e.ID, &e.GroupID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *DB) InsertEvent(ctx context.Context, create CreateEvent) (uuid.UUID, error) {
	id := uuid.New()

	_, err := d.ExecContext(ctx, `
		INSERT INTO events (id, group_id, name, description, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, create.GroupID, create.Name, create.Description, create.StartsAt, create.EndsAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db: insert event: %w", err)
	}

	return id, nil
}

func (d *DB) UpdateEvent(ctx context.Context, id uuid.UUID, create CreateEvent) error {
	_, err := d.ExecContext(ctx, `
		UPDATE events SET
			group_id = $2, name = $3, description = $4, starts_at = $5, ends_at = $6
		WHERE id = $1
	`, id, create.GroupID, create.Name, create.Description, create.StartsAt, create.EndsAt)
	return err
}

func (d *DB) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	_, err := d.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
