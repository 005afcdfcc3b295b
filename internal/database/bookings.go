package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"
	"slotbook/internal/slot"
)

func (db *DB) ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	return listBookings(ctx, db, eventID)
}

func listBookings(ctx context.Context, q queryer, eventID int64) ([]models.Booking, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, event_id, name, email, start_time, end_time, created_at
		 FROM bookings WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.Email, &b.StartTime, &b.EndTime, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// CreateBooking admits the booking only if it overlaps none of the event's
// existing bookings. The check and the insert share one transaction.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if !booking.Interval().Valid() {
		return domain.ErrInvalidInterval
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, booking.EventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}

	existing, err := listBookings(ctx, tx, booking.EventID)
	if err != nil {
		return err
	}
	if idx, clash := slot.FirstConflict(booking.Interval(), models.Intervals(existing)); clash {
		db.logger.Debug().
			Int64("event_id", booking.EventID).
			Str("candidate", booking.Interval().String()).
			Int64("conflicting_booking", existing[idx].ID).
			Msg("booking rejected by store")
		return fmt.Errorf("%w: overlaps %s", domain.ErrSlotConflict, existing[idx].Interval())
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (event_id, name, email, start_time, end_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		booking.EventID, booking.Name, booking.Email, booking.StartTime, booking.EndTime, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	return nil
}
