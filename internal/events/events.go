package events

import (
	"encoding/json"
	"sync"
	"time"

	"slotbook/internal/models"
)

const (
	EventCreated    = "event_created"
	BookingAccepted = "booking_accepted"
)

// BookingAcceptedPayload is emitted once the store has recorded a booking.
// List views treat it as the signal to re-fetch the event's bookings.
type BookingAcceptedPayload struct {
	EventID int64          `json:"event_id"`
	Booking models.Booking `json:"booking"`
}

type EventCreatedPayload struct {
	Event models.Event `json:"event"`
}

// Message is a published domain event with a JSON payload.
type Message struct {
	Type      string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (m *Message) Decode(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

type Handler func(msg *Message) error

// EventBus provides in-process pub/sub. Handlers run synchronously in
// subscription order; a failing handler does not stop the others.
type EventBus struct {
	subscribers map[string][]Handler
	all         []Handler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler that receives every event type.
func (b *EventBus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish notifies subscribers and returns the first handler error, if any.
func (b *EventBus) Publish(msg *Message) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[msg.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	var first error
	for _, handler := range handlers {
		if err := handler(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PublishJSON serializes the payload and publishes it. A nil bus is a no-op.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	msg, err := NewJSONMessage(eventType, payload)
	if err != nil {
		return err
	}
	return b.Publish(msg)
}

// NewJSONMessage builds a Message, deriving the partition key from the payload.
func NewJSONMessage(eventType string, payload interface{}) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{Type: eventType, Key: keyFor(payload), Payload: raw, CreatedAt: time.Now()}, nil
}

func keyFor(payload interface{}) string {
	switch p := payload.(type) {
	case BookingAcceptedPayload:
		return eventKey(p.EventID)
	case *BookingAcceptedPayload:
		return eventKey(p.EventID)
	case EventCreatedPayload:
		return eventKey(p.Event.ID)
	case *EventCreatedPayload:
		return eventKey(p.Event.ID)
	}
	return ""
}
