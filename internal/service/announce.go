package service

import (
	"context"

	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

// announcer fans an accepted booking out to subscribers. Failures here never
// undo the acceptance; they are logged.
type announcer struct {
	publisher domain.EventPublisher
	sync      domain.SyncWorker
	logger    zerolog.Logger
}

func (n announcer) accepted(ctx context.Context, booking *models.Booking) {
	if n.publisher != nil {
		payload := events.BookingAcceptedPayload{EventID: booking.EventID, Booking: *booking}
		if err := n.publisher.PublishJSON(events.BookingAccepted, payload); err != nil {
			n.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to publish booking_accepted")
		}
	}

	if n.sync != nil {
		if err := n.sync.EnqueueBooking(ctx, booking); err != nil {
			n.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("failed to enqueue sheet sync")
		}
	}
}
