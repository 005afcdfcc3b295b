// Package notify tells organizers and attendees about accepted bookings.
package notify

import (
	"context"
	"fmt"
	"strings"

	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const queueSize = 64

// Notifier delivers booking_accepted events off the publishing goroutine.
// Delivery is best effort: a full queue drops the notification.
type Notifier struct {
	telegram domain.TelegramSender
	chatIDs  []int64
	mailer   domain.Mailer
	events   domain.EventStore
	jobs     chan events.BookingAcceptedPayload
	logger   zerolog.Logger
}

// NewNotifier accepts a nil telegram sender or mailer to skip that channel.
func NewNotifier(telegram domain.TelegramSender, chatIDs []int64, mailer domain.Mailer, eventStore domain.EventStore, logger *zerolog.Logger) *Notifier {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "notifier").Logger()
	}
	return &Notifier{
		telegram: telegram,
		chatIDs:  chatIDs,
		mailer:   mailer,
		events:   eventStore,
		jobs:     make(chan events.BookingAcceptedPayload, queueSize),
		logger:   l,
	}
}

func (n *Notifier) Attach(bus *events.EventBus) {
	bus.Subscribe(events.BookingAccepted, n.handleAccepted)
}

func (n *Notifier) handleAccepted(msg *events.Message) error {
	var payload events.BookingAcceptedPayload
	if err := msg.Decode(&payload); err != nil {
		return fmt.Errorf("decode booking_accepted: %w", err)
	}
	select {
	case n.jobs <- payload:
	default:
		n.logger.Warn().Int64("booking_id", payload.Booking.ID).Msg("notification queue full, dropping")
	}
	return nil
}

// Run delivers queued notifications until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-n.jobs:
			n.deliver(ctx, payload)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, payload events.BookingAcceptedPayload) {
	booking := payload.Booking
	event := n.lookupEvent(ctx, payload.EventID)

	if n.telegram != nil {
		text := organizerMessage(event, &booking)
		for _, chatID := range n.chatIDs {
			if _, err := n.telegram.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				n.logger.Error().Err(err).Int64("chat_id", chatID).Int64("booking_id", booking.ID).Msg("telegram send failed")
			}
		}
	}

	if n.mailer != nil && booking.Email != "" {
		subject, body := confirmationEmail(event, &booking)
		if err := n.mailer.Send(ctx, booking.Email, subject, body); err != nil {
			n.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("confirmation email failed")
		}
	}
}

func (n *Notifier) lookupEvent(ctx context.Context, id int64) *models.Event {
	if n.events != nil {
		ev, err := n.events.GetEvent(ctx, id)
		if err == nil {
			return ev
		}
		n.logger.Warn().Err(err).Int64("event_id", id).Msg("event lookup failed")
	}
	return &models.Event{ID: id, Title: fmt.Sprintf("event #%d", id)}
}

func organizerMessage(event *models.Event, b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking for %s", event.Title)
	if !event.Date.IsZero() {
		fmt.Fprintf(&sb, " on %s", event.DateString())
	}
	fmt.Fprintf(&sb, "\n%s-%s\n%s <%s>", b.StartTime, b.EndTime, b.Name, b.Email)
	return sb.String()
}

func confirmationEmail(event *models.Event, b *models.Booking) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s", event.Title)

	when := fmt.Sprintf("%s-%s", b.StartTime, b.EndTime)
	if !event.Date.IsZero() {
		when = event.DateString() + " " + when
	}
	body = fmt.Sprintf("Hello %s,\n\nyour slot for %s is booked: %s.\nBooking number: %d\n", b.Name, event.Title, when, b.ID)
	return subject, body
}
