// Package postgres is the Postgres implementation of the authoritative store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/database/postgres/migrations"
	"slotbook/internal/domain"
	"slotbook/internal/models"
	"slotbook/internal/slot"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store serializes booking inserts per event by locking the event row.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ domain.Store = (*Store)(nil)

// New connects, pings and migrates.
func New(ctx context.Context, dsn string, logger *zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "postgres").Logger()
	}
	l.Info().Msg("postgres store initialized")
	return &Store{pool: pool, logger: l}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) PingContext(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO events (title, description, date) VALUES ($1, $2, $3) RETURNING id, created_at`,
		event.Title, event.Description, event.Date,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, description, date, created_at FROM events ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	list := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var e models.Event
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, date, created_at FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

func (s *Store) ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, name, email, start_min, end_min, created_at
		 FROM bookings WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		var (
			b          models.Booking
			start, end int16
		)
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.Email, &start, &end, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.StartTime, b.EndTime = slot.Clock(start), slot.Clock(end)
		list = append(list, b)
	}
	return list, rows.Err()
}

// CreateBooking locks the event row so concurrent inserts for the same event
// run the overlap query one at a time.
func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if !booking.Interval().Valid() {
		return domain.ErrInvalidInterval
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, booking.EventID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock event: %w", err)
	}

	var (
		clashID    int64
		start, end int16
	)
	err = tx.QueryRow(ctx,
		`SELECT id, start_min, end_min FROM bookings
		 WHERE event_id = $1 AND start_min < $3 AND $2 < end_min
		 ORDER BY id LIMIT 1`,
		booking.EventID, int16(booking.StartTime), int16(booking.EndTime),
	).Scan(&clashID, &start, &end)
	switch {
	case err == nil:
		clash := slot.Interval{Start: slot.Clock(start), End: slot.Clock(end)}
		return fmt.Errorf("%w: overlaps %s", domain.ErrSlotConflict, clash)
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("failed to check overlap: %w", err)
	}

	var (
		id        int64
		createdAt time.Time
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (event_id, name, email, start_min, end_min)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		booking.EventID, booking.Name, booking.Email, int16(booking.StartTime), int16(booking.EndTime),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	booking.ID, booking.CreatedAt = id, createdAt
	s.logger.Debug().Int64("booking_id", id).Int64("event_id", booking.EventID).Msg("booking created")
	return nil
}
