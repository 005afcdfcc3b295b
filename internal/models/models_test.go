package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbook/internal/slot"
)

func TestBookingRequest_Booking(t *testing.T) {
	req := BookingRequest{
		EventID: 7,
		Name:    "Ada",
		Email:   "ada@example.com",
		Start:   slot.MustClock("09:00"),
		End:     slot.MustClock("10:00"),
	}

	b := req.Booking()
	assert.Equal(t, int64(0), b.ID)
	assert.Equal(t, int64(7), b.EventID)
	assert.Equal(t, "Ada", b.Name)
	assert.Equal(t, "ada@example.com", b.Email)
	assert.Equal(t, req.Interval(), b.Interval())
}

func TestIntervals(t *testing.T) {
	bookings := []Booking{
		{StartTime: slot.MustClock("09:00"), EndTime: slot.MustClock("10:00")},
		{StartTime: slot.MustClock("11:00"), EndTime: slot.MustClock("11:30")},
	}

	got := Intervals(bookings)
	assert.Equal(t, []slot.Interval{
		{Start: 9 * 60, End: 10 * 60},
		{Start: 11 * 60, End: 11*60 + 30},
	}, got)
	assert.Empty(t, Intervals(nil))
}

func TestEvent_DateString(t *testing.T) {
	e := Event{Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2026-03-14", e.DateString())
}

func TestEvent_JSON(t *testing.T) {
	e := Event{ID: 4, Title: "Meetup", Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2026-03-14"`)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(4), decoded.ID)
	assert.Equal(t, "Meetup", decoded.Title)
	assert.True(t, e.Date.Equal(decoded.Date))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"14/03/2026"}`), &decoded))
}

func TestBookingTask(t *testing.T) {
	b := &Booking{ID: 3, EventID: 7, Name: "Ada", Email: "ada@example.com",
		StartTime: slot.MustClock("09:00"), EndTime: slot.MustClock("10:00")}

	task, err := NewBookingTask("append_booking", b)
	require.NoError(t, err)
	assert.Equal(t, int64(3), task.BookingID)
	assert.Equal(t, SyncStatusPending, task.Status)

	got, err := task.Booking()
	require.NoError(t, err)
	assert.Equal(t, b.Interval(), got.Interval())
	assert.Equal(t, "Ada", got.Name)

	_, err = NewBookingTask("append_booking", &Booking{})
	assert.Error(t, err)

	_, err = SyncTask{Payload: "{}"}.Booking()
	assert.Error(t, err)
}
