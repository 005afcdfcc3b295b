package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/metrics"
	"slotbook/internal/models"
	"slotbook/internal/slot"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// State is a step of the admission workflow.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateChecking   State = "checking"
	StateSubmitting State = "submitting"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
	StateFailed     State = "failed"
)

func (s State) Terminal() bool {
	return s == StateAccepted || s == StateRejected || s == StateFailed
}

// Outcome is the single result reported for an attempt. Booking is set only
// when State is StateAccepted.
type Outcome struct {
	State   State           `json:"state"`
	Kind    Kind            `json:"kind,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
	Err     error           `json:"-"`
}

func (o Outcome) Accepted() bool {
	return o.State == StateAccepted
}

type TransitionHook func(from, to State)

type Option func(*Admission)

// WithTransitionHook observes every state change of every attempt,
// including the final return to idle.
func WithTransitionHook(hook TransitionHook) Option {
	return func(a *Admission) {
		a.hooks = append(a.hooks, hook)
	}
}

// WithSyncWorker mirrors accepted bookings to the spreadsheet worker.
func WithSyncWorker(w domain.SyncWorker) Option {
	return func(a *Admission) {
		a.announcer.sync = w
	}
}

// Admission decides whether a requested slot may be granted and, if so,
// records it in the store. It holds no per-attempt state and is safe for
// concurrent use.
type Admission struct {
	store     domain.BookingStore
	validate  *validator.Validate
	announcer announcer
	hooks     []TransitionHook
	logger    zerolog.Logger
}

func NewAdmission(store domain.BookingStore, publisher domain.EventPublisher, logger *zerolog.Logger, opts ...Option) *Admission {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "admission").Logger()
	}
	a := &Admission{
		store:     store,
		validate:  validator.New(),
		announcer: announcer{publisher: publisher, logger: l},
		logger:    l,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type attempt struct {
	a     *Admission
	state State
}

func (t *attempt) to(next State) {
	prev := t.state
	t.state = next
	for _, hook := range t.a.hooks {
		hook(prev, next)
	}
}

// Admit runs one attempt from validation to a terminal state and back to idle.
func (a *Admission) Admit(ctx context.Context, req models.BookingRequest) Outcome {
	started := time.Now()
	t := &attempt{a: a, state: StateIdle}

	out := a.run(ctx, t, req)
	t.to(out.State)
	t.to(StateIdle)

	metrics.ObserveAdmission(string(out.State), string(out.Kind), time.Since(started))

	ev := a.logger.Info()
	if out.State == StateFailed {
		ev = a.logger.Warn().Err(out.Err)
	}
	ev.Int64("event_id", req.EventID).
		Str("interval", req.Interval().String()).
		Str("state", string(out.State)).
		Str("kind", string(out.Kind)).
		Dur("took", time.Since(started)).
		Msg("admission finished")

	return out
}

func (a *Admission) run(ctx context.Context, t *attempt, req models.BookingRequest) Outcome {
	t.to(StateValidating)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := a.check(req); err != nil {
		return rejected(err)
	}

	t.to(StateChecking)
	if err := ctx.Err(); err != nil {
		return failed(KindFetchError, "attempt cancelled before bookings were fetched", err)
	}
	existing, err := a.store.ListBookingsForEvent(ctx, req.EventID)
	if err != nil {
		return failed(KindFetchError, fmt.Sprintf("could not load bookings for event %d", req.EventID), err)
	}
	if idx, clash := slot.FirstConflict(req.Interval(), models.Intervals(existing)); clash {
		return rejected(&AdmissionError{
			Kind:   KindSlotConflict,
			Reason: fmt.Sprintf("%s overlaps the existing booking %s", req.Interval(), existing[idx].Interval()),
		})
	}

	t.to(StateSubmitting)
	if err := ctx.Err(); err != nil {
		return failed(KindSubmitError, "attempt cancelled before the booking was submitted", err)
	}
	booking := req.Booking()
	if err := a.store.CreateBooking(ctx, booking); err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotConflict):
			return rejected(&AdmissionError{
				Kind:   KindSlotConflict,
				Reason: fmt.Sprintf("%s was taken by a concurrent booking", req.Interval()),
				Err:    err,
			})
		case errors.Is(err, domain.ErrInvalidInterval):
			return rejected(&AdmissionError{Kind: KindInvalidInterval, Reason: "start time must be before end time", Err: err})
		default:
			return failed(KindSubmitError, "the store did not record the booking", err)
		}
	}

	a.announcer.accepted(ctx, booking)
	return Outcome{State: StateAccepted, Booking: booking}
}

// check validates the interval first, then contact details.
func (a *Admission) check(req models.BookingRequest) *AdmissionError {
	if !req.Interval().Valid() {
		return &AdmissionError{
			Kind:   KindInvalidInterval,
			Reason: fmt.Sprintf("start time %s must be before end time %s", req.Start, req.End),
		}
	}
	if err := a.validate.Struct(req); err != nil {
		return &AdmissionError{Kind: KindInvalidContactInfo, Reason: contactReason(err), Err: err}
	}
	return nil
}

func contactReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid contact details"
	}
	switch fe := verrs[0]; {
	case fe.Field() == "Name":
		return "name is required"
	case fe.Field() == "Email" && fe.Tag() == "required":
		return "email is required"
	default:
		return "email address is not valid"
	}
}

func rejected(err *AdmissionError) Outcome {
	return Outcome{State: StateRejected, Kind: err.Kind, Reason: err.Reason, Err: err}
}

func failed(kind Kind, reason string, cause error) Outcome {
	err := &AdmissionError{Kind: kind, Reason: reason, Err: cause}
	return Outcome{State: StateFailed, Kind: kind, Reason: reason, Err: err}
}
