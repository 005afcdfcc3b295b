package models

import (
	"time"

	"slotbook/internal/slot"
)

// Booking is an admitted reservation of a time slot within an event.
type Booking struct {
	ID        int64      `json:"id"`
	EventID   int64      `json:"event_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	StartTime slot.Clock `json:"start_time"`
	EndTime   slot.Clock `json:"end_time"`
	CreatedAt time.Time  `json:"created_at"`
}

func (b Booking) Interval() slot.Interval {
	return slot.Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingRequest is a candidate booking as gathered from the attendee.
type BookingRequest struct {
	EventID int64      `json:"event_id"`
	Name    string     `json:"name" validate:"required"`
	Email   string     `json:"email" validate:"required,email"`
	Start   slot.Clock `json:"start_time"`
	End     slot.Clock `json:"end_time"`
}

func (r BookingRequest) Interval() slot.Interval {
	return slot.Interval{Start: r.Start, End: r.End}
}

// Booking builds the record to submit to the store; ID and CreatedAt are
// assigned by the store.
func (r BookingRequest) Booking() *Booking {
	return &Booking{
		EventID:   r.EventID,
		Name:      r.Name,
		Email:     r.Email,
		StartTime: r.Start,
		EndTime:   r.End,
	}
}

// Intervals projects bookings onto their time ranges.
func Intervals(bookings []Booking) []slot.Interval {
	out := make([]slot.Interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Interval())
	}
	return out
}
