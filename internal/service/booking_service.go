package service

import (
	"context"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

// BookingService is the store binding served over HTTP. Unlike Admission it
// performs no client-side check; the store's own overlap check decides.
type BookingService struct {
	store     domain.BookingStore
	view      *BookingListView
	announcer announcer
}

func NewBookingService(store domain.BookingStore, publisher domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "booking_service").Logger()
	}
	return &BookingService{
		store:     store,
		announcer: announcer{publisher: publisher, sync: sheetsWorker, logger: l},
	}
}

// UseListView serves listings through the view's snapshot cache. Admission
// never reads through it.
func (s *BookingService) UseListView(v *BookingListView) {
	s.view = v
}

func (s *BookingService) ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	if s.view != nil {
		return s.view.Bookings(ctx, eventID)
	}
	return s.store.ListBookingsForEvent(ctx, eventID)
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return err
	}
	s.announcer.accepted(ctx, booking)
	return nil
}
