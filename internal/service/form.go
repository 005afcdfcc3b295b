package service

import (
	"context"
	"fmt"
	"sync"

	"slotbook/internal/models"
	"slotbook/internal/slot"
)

// Admitter runs one admission attempt.
type Admitter interface {
	Admit(ctx context.Context, req models.BookingRequest) Outcome
}

// FormInput is the raw attendee input, with times as typed ("HH:MM").
type FormInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// BookingForm holds the transient input for booking one event. Input
// survives rejected and failed attempts so it can be corrected; it is
// cleared only once a booking is accepted.
type BookingForm struct {
	admitter Admitter
	eventID  int64

	submitMu sync.Mutex

	mu    sync.Mutex
	input FormInput
	last  *Outcome
}

func NewBookingForm(admitter Admitter, eventID int64) *BookingForm {
	return &BookingForm{admitter: admitter, eventID: eventID}
}

func (f *BookingForm) EventID() int64 {
	return f.eventID
}

func (f *BookingForm) Set(input FormInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = input
}

func (f *BookingForm) Input() FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Last returns the outcome of the most recent attempt, if any.
func (f *BookingForm) Last() (Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		return Outcome{}, false
	}
	return *f.last, true
}

// Submit runs one attempt with the current input. Concurrent calls are
// serialized.
func (f *BookingForm) Submit(ctx context.Context) Outcome {
	f.submitMu.Lock()
	defer f.submitMu.Unlock()

	input := f.Input()

	var out Outcome
	req, err := f.request(input)
	if err != nil {
		out = rejected(err)
	} else {
		out = f.admitter.Admit(ctx, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if out.Accepted() && f.input == input {
		f.input = FormInput{}
	}
	f.last = &out
	return out
}

func (f *BookingForm) request(input FormInput) (models.BookingRequest, *AdmissionError) {
	start, err := slot.ParseClock(input.Start)
	if err != nil {
		return models.BookingRequest{}, &AdmissionError{Kind: KindInvalidInterval, Reason: fmt.Sprintf("start time %q is not a valid time", input.Start), Err: err}
	}
	end, err := slot.ParseClock(input.End)
	if err != nil {
		return models.BookingRequest{}, &AdmissionError{Kind: KindInvalidInterval, Reason: fmt.Sprintf("end time %q is not a valid time", input.End), Err: err}
	}
	return models.BookingRequest{
		EventID: f.eventID,
		Name:    input.Name,
		Email:   input.Email,
		Start:   start,
		End:     end,
	}, nil
}
