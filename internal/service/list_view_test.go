package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slotbook/internal/events"
	"slotbook/internal/models"
	"slotbook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingListView_ReadsThroughCache(t *testing.T) {
	store := new(mockStore)
	cache := repository.NewMemorySnapshotCache(time.Minute)
	view := NewBookingListView(store, cache, nil)
	ctx := context.Background()

	list := []models.Booking{existing("09:00", "10:00")}
	store.On("ListBookingsForEvent", ctx, int64(1)).Return(list, nil).Once()

	got, err := view.Bookings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	got, err = view.Bookings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	store.AssertNumberOfCalls(t, "ListBookingsForEvent", 1)
}

func TestBookingListView_RefetchesOnAccepted(t *testing.T) {
	store := new(mockStore)
	cache := repository.NewMemorySnapshotCache(time.Minute)
	view := NewBookingListView(store, cache, nil)
	bus := events.NewEventBus()
	view.Attach(bus)

	before := []models.Booking{existing("09:00", "10:00")}
	after := append(append([]models.Booking{}, before...), existing("10:00", "11:00"))
	store.On("ListBookingsForEvent", mock.Anything, int64(1)).Return(before, nil).Once()
	store.On("ListBookingsForEvent", mock.Anything, int64(1)).Return(after, nil).Once()

	var notified []models.Booking
	view.OnChange(func(eventID int64, bookings []models.Booking) {
		assert.Equal(t, int64(1), eventID)
		notified = bookings
	})

	got, err := view.Bookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, bus.PublishJSON(events.BookingAccepted, events.BookingAcceptedPayload{EventID: 1, Booking: after[1]}))
	assert.Len(t, notified, 2)

	got, err = view.Bookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 2, "cache must hold the refreshed list")
	store.AssertExpectations(t)
}

func TestBookingListView_AdmissionTriggersRefresh(t *testing.T) {
	store := new(mockStore)
	bus := events.NewEventBus()
	view := NewBookingListView(store, nil, nil)
	view.Attach(bus)
	a := NewAdmission(store, bus, nil)
	ctx := context.Background()

	refreshed := make(chan int64, 1)
	view.OnChange(func(eventID int64, _ []models.Booking) { refreshed <- eventID })

	store.On("ListBookingsForEvent", mock.Anything, int64(1)).Return([]models.Booking{}, nil)
	store.On("CreateBooking", ctx, mock.Anything).Return(nil).Once()

	out := a.Admit(ctx, request("09:00", "10:00"))
	require.True(t, out.Accepted())

	select {
	case id := <-refreshed:
		assert.Equal(t, int64(1), id)
	default:
		t.Fatal("list view was not refreshed after acceptance")
	}
}

func TestBookingListView_CacheErrorsFallBackToStore(t *testing.T) {
	store := new(mockStore)
	cache := new(mockCache)
	view := NewBookingListView(store, cache, nil)
	ctx := context.Background()

	list := []models.Booking{existing("09:00", "10:00")}
	cache.On("Get", ctx, int64(1)).Return(nil, false, errors.New("redis down")).Once()
	store.On("ListBookingsForEvent", ctx, int64(1)).Return(list, nil).Once()
	cache.On("Set", ctx, int64(1), list).Return(errors.New("redis down")).Once()

	got, err := view.Bookings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, list, got)
	cache.AssertExpectations(t)
}

func TestBookingListView_StoreError(t *testing.T) {
	store := new(mockStore)
	view := NewBookingListView(store, nil, nil)
	ctx := context.Background()

	store.On("ListBookingsForEvent", ctx, int64(1)).Return(nil, errors.New("timeout")).Once()

	_, err := view.Bookings(ctx, 1)
	assert.ErrorContains(t, err, "timeout")
}

// gatedStore holds the first ListBookingsForEvent open until release is
// closed and then returns the bookings it saw when the call started.
type gatedStore struct {
	mu       sync.Mutex
	bookings []models.Booking
	calls    int
	entered  chan struct{}
	release  chan struct{}
}

func (s *gatedStore) ListBookingsForEvent(_ context.Context, _ int64) ([]models.Booking, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	snapshot := append([]models.Booking(nil), s.bookings...)
	s.mu.Unlock()

	if first {
		close(s.entered)
		<-s.release
	}
	return snapshot, nil
}

func (s *gatedStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, *b)
	return nil
}

func TestBookingListView_SlowReadDoesNotOverwriteRefresh(t *testing.T) {
	store := &gatedStore{entered: make(chan struct{}), release: make(chan struct{})}
	cache := repository.NewMemorySnapshotCache(time.Minute)
	bus := events.NewEventBus()
	view := NewBookingListView(store, cache, nil)
	view.Attach(bus)
	a := NewAdmission(store, bus, nil)
	ctx := context.Background()

	slow := make(chan []models.Booking, 1)
	go func() {
		got, err := view.Bookings(ctx, 1)
		assert.NoError(t, err)
		slow <- got
	}()
	<-store.entered

	out := a.Admit(ctx, request("09:00", "10:00"))
	require.True(t, out.Accepted())

	close(store.release)
	assert.Empty(t, <-slow, "the slow read saw the list before the booking")

	got, err := view.Bookings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1, "cache must keep the list refreshed after acceptance")
	assert.Equal(t, out.Booking.ID, got[0].ID)
}
