package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SyncTask is a queued job that mirrors a booking to the bookings spreadsheet.
// Payload holds the booking as JSON so the mirror does not depend on the
// store still serving it.
type SyncTask struct {
	ID          int64      `json:"id"`
	TaskType    string     `json:"task_type"`
	BookingID   int64      `json:"booking_id"`
	Payload     string     `json:"payload"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   *string    `json:"last_error"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	NextRetryAt *time.Time `json:"next_retry_at"`
}

// NewBookingTask builds a pending task carrying b.
func NewBookingTask(taskType string, b *Booking) (SyncTask, error) {
	if b == nil || b.ID == 0 {
		return SyncTask{}, errors.New("booking id is required")
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return SyncTask{}, fmt.Errorf("encode payload: %w", err)
	}
	return SyncTask{
		TaskType:  taskType,
		BookingID: b.ID,
		Payload:   string(payload),
		Status:    SyncStatusPending,
	}, nil
}

// Booking decodes the payload written by NewBookingTask.
func (t SyncTask) Booking() (*Booking, error) {
	var b Booking
	if err := json.Unmarshal([]byte(t.Payload), &b); err != nil {
		return nil, err
	}
	if b.ID == 0 {
		return nil, errors.New("booking id missing")
	}
	return &b, nil
}
