package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"
)

func (db *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO events (title, description, date, created_at) VALUES (?, ?, ?, ?)`,
		event.Title, event.Description, event.DateString(), now,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	event.ID = id
	event.CreatedAt = now
	return nil
}

func (db *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, description, date, created_at FROM events ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func (db *DB) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, title, description, date, created_at FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e    models.Event
		date string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &date, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("event %d has malformed date %q: %w", e.ID, date, err)
	}
	e.Date = parsed
	return &e, nil
}
