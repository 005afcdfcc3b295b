// Package slot decides whether a requested time range fits among the ranges
// already booked for an event.
package slot

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MaxClock is the end of the day; it is valid only as an interval end.
const MaxClock Clock = 24 * 60

// Clock is a wall-clock instant within one calendar day, in minutes since midnight.
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS" as produced by a time input.
// Seconds are truncated.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" || s == "24:00:00" {
		return MaxClock, nil
	}

	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) valid() bool {
	return c >= 0 && c <= MaxClock
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the clock as zero-padded "HH:MM", which orders lexically.
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
	case []byte:
		return c.Scan(string(v))
	case int64:
		*c = Clock(v)
	default:
		return fmt.Errorf("cannot scan %T into slot.Clock", src)
	}
	return nil
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

// Valid reports whether both ends are in range and Start < End.
func (i Interval) Valid() bool {
	return i.Start.valid() && i.End.valid() && i.Start < MaxClock && i.Start < i.End
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Conflicts reports whether the two half-open intervals share any instant.
// Adjacent intervals (one ends where the other starts) do not conflict.
func Conflicts(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// FirstConflict returns the index of the first interval in existing that
// conflicts with candidate.
func FirstConflict(candidate Interval, existing []Interval) (int, bool) {
	for i, e := range existing {
		if Conflicts(candidate, e) {
			return i, true
		}
	}
	return -1, false
}

// IsAdmissible reports whether candidate conflicts with none of existing.
// An invalid candidate is never admissible.
func IsAdmissible(candidate Interval, existing []Interval) bool {
	if !candidate.Valid() {
		return false
	}
	_, clash := FirstConflict(candidate, existing)
	return !clash
}
