package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is something organizers publish and attendees book slots in.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// DateString renders the calendar date of the event.
func (e Event) DateString() string {
	return e.Date.Format(DateLayout)
}

// MarshalJSON writes date as YYYY-MM-DD.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(e), e.DateString()})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		*alias
		Date string `json:"date"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == "" {
		e.Date = time.Time{}
		return nil
	}
	d, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		return fmt.Errorf("invalid event date %q: %w", aux.Date, err)
	}
	e.Date = d
	return nil
}
