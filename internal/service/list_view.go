package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

const refreshTimeout = 5 * time.Second

// BookingListView is the read side for showing an event's bookings. It reads
// through the snapshot cache and re-fetches from the store whenever a
// booking_accepted event arrives for an event.
type BookingListView struct {
	store  domain.BookingStore
	cache  domain.SnapshotCache
	logger zerolog.Logger

	mu        sync.RWMutex
	listeners []func(eventID int64, bookings []models.Booking)

	// genMu guards gens and orders cache writes against refreshes. A read
	// that started before a refresh must not overwrite the refreshed list.
	genMu sync.Mutex
	gens  map[int64]uint64
}

// NewBookingListView builds a view. cache may be nil.
func NewBookingListView(store domain.BookingStore, cache domain.SnapshotCache, logger *zerolog.Logger) *BookingListView {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "booking_list_view").Logger()
	}
	return &BookingListView{store: store, cache: cache, logger: l, gens: make(map[int64]uint64)}
}

// Attach subscribes the view to booking_accepted on the bus.
func (v *BookingListView) Attach(bus *events.EventBus) {
	bus.Subscribe(events.BookingAccepted, v.handleAccepted)
}

// OnChange registers a listener called with the fresh list after every refresh.
func (v *BookingListView) OnChange(fn func(eventID int64, bookings []models.Booking)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Bookings returns the event's bookings, from cache when possible.
func (v *BookingListView) Bookings(ctx context.Context, eventID int64) ([]models.Booking, error) {
	if v.cache != nil {
		cached, ok, err := v.cache.Get(ctx, eventID)
		if err != nil {
			v.logger.Warn().Err(err).Int64("event_id", eventID).Msg("snapshot cache read failed")
		} else if ok {
			return cached, nil
		}
	}
	return v.fetch(ctx, eventID, v.generation(eventID))
}

// Refresh drops the cached snapshot and loads the list from the store.
func (v *BookingListView) Refresh(ctx context.Context, eventID int64) ([]models.Booking, error) {
	gen := v.bump(eventID)
	if v.cache != nil {
		if err := v.cache.Invalidate(ctx, eventID); err != nil {
			v.logger.Warn().Err(err).Int64("event_id", eventID).Msg("snapshot cache invalidate failed")
		}
	}
	bookings, err := v.fetch(ctx, eventID, gen)
	if err != nil {
		return nil, err
	}

	v.mu.RLock()
	listeners := append([]func(int64, []models.Booking){}, v.listeners...)
	v.mu.RUnlock()
	for _, fn := range listeners {
		fn(eventID, bookings)
	}
	return bookings, nil
}

func (v *BookingListView) generation(eventID int64) uint64 {
	v.genMu.Lock()
	defer v.genMu.Unlock()
	return v.gens[eventID]
}

func (v *BookingListView) bump(eventID int64) uint64 {
	v.genMu.Lock()
	defer v.genMu.Unlock()
	v.gens[eventID]++
	return v.gens[eventID]
}

// fetch reads the store and caches the result only if no refresh for the
// event started after gen was taken.
func (v *BookingListView) fetch(ctx context.Context, eventID int64, gen uint64) ([]models.Booking, error) {
	bookings, err := v.store.ListBookingsForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for event %d: %w", eventID, err)
	}
	if v.cache == nil {
		return bookings, nil
	}

	v.genMu.Lock()
	defer v.genMu.Unlock()
	if v.gens[eventID] != gen {
		v.logger.Debug().Int64("event_id", eventID).Msg("skipping stale snapshot write")
		return bookings, nil
	}
	if err := v.cache.Set(ctx, eventID, bookings); err != nil {
		v.logger.Warn().Err(err).Int64("event_id", eventID).Msg("snapshot cache write failed")
	}
	return bookings, nil
}

func (v *BookingListView) handleAccepted(msg *events.Message) error {
	var payload events.BookingAcceptedPayload
	if err := msg.Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode booking_accepted: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := v.Refresh(ctx, payload.EventID); err != nil {
		v.logger.Error().Err(err).Int64("event_id", payload.EventID).Msg("failed to refresh booking list")
		return err
	}
	return nil
}
