package bot

import (
	"sync"

	"slotbook/internal/service"
)

type bookingStep string

const (
	stepName   bookingStep = "name"
	stepEmail  bookingStep = "email"
	stepStart  bookingStep = "start"
	stepEnd    bookingStep = "end"
	stepReview bookingStep = "review"
)

// session is one attendee's booking conversation for a single event.
// The form keeps what was typed across rejected and failed attempts.
type session struct {
	Step       bookingStep
	EventTitle string
	Form       *service.BookingForm
}

type sessionStore struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[int64]*session)}
}

func (s *sessionStore) get(userID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[userID]
	return st, ok
}

func (s *sessionStore) put(userID int64, st *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = st
}

func (s *sessionStore) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
