package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/internal/events"
	"slotbook/internal/models"
	"slotbook/internal/repository"
	"slotbook/internal/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateEvent(t *testing.T) {
	store := new(mockStore)
	pub := new(mockPublisher)
	svc := NewEventService(store, pub, nil)
	ctx := context.Background()

	store.On("CreateEvent", ctx, mock.AnythingOfType("*models.Event")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Event).ID = 5
	}).Return(nil).Once()
	pub.On("PublishJSON", events.EventCreated, mock.MatchedBy(func(p events.EventCreatedPayload) bool {
		return p.Event.ID == 5
	})).Return(nil).Once()

	e, err := svc.CreateEvent(ctx, "  Go meetup ", "talks", "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.ID)
	assert.Equal(t, "Go meetup", e.Title)
	assert.Equal(t, "2026-09-10", e.DateString())

	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestEventService_CreateEventValidation(t *testing.T) {
	store := new(mockStore)
	svc := NewEventService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, "", "x", "2026-09-10")
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = svc.CreateEvent(ctx, "Title", "x", "10/09/2026")
	assert.ErrorIs(t, err, ErrInvalidEvent)

	store.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestEventService_StoreError(t *testing.T) {
	store := new(mockStore)
	svc := NewEventService(store, nil, nil)
	ctx := context.Background()

	store.On("CreateEvent", ctx, mock.Anything).Return(errors.New("disk full")).Once()
	_, err := svc.CreateEvent(ctx, "Title", "", "2026-09-10")
	assert.ErrorContains(t, err, "disk full")

	store.On("ListEvents", ctx).Return([]models.Event{{ID: 1}}, nil).Once()
	list, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookingService_CreateBooking(t *testing.T) {
	store := new(mockStore)
	pub := new(mockPublisher)
	worker := new(mockSyncWorker)
	svc := NewBookingService(store, pub, worker, nil)
	ctx := context.Background()

	b := &models.Booking{EventID: 1}
	store.On("CreateBooking", ctx, b).Return(nil).Once()
	pub.On("PublishJSON", events.BookingAccepted, mock.Anything).Return(nil).Once()
	worker.On("EnqueueBooking", ctx, b).Return(nil).Once()

	require.NoError(t, svc.CreateBooking(ctx, b))

	store.On("CreateBooking", ctx, b).Return(errors.New("conflict")).Once()
	assert.Error(t, svc.CreateBooking(ctx, b))

	pub.AssertNumberOfCalls(t, "PublishJSON", 1)
	worker.AssertNumberOfCalls(t, "EnqueueBooking", 1)
}

func TestBookingService_ListThroughView(t *testing.T) {
	store := new(mockStore)
	bus := events.NewEventBus()
	view := NewBookingListView(store, repository.NewMemorySnapshotCache(time.Minute), nil)
	view.Attach(bus)

	svc := NewBookingService(store, bus, nil, nil)
	svc.UseListView(view)
	ctx := context.Background()

	before := []models.Booking{existing("09:00", "10:00")}
	store.On("ListBookingsForEvent", ctx, int64(1)).Return(before, nil).Once()
	for i := 0; i < 2; i++ {
		got, err := svc.ListBookingsForEvent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, before, got)
	}
	store.AssertNumberOfCalls(t, "ListBookingsForEvent", 1)

	b := &models.Booking{ID: 11, EventID: 1, StartTime: slot.MustClock("10:00"), EndTime: slot.MustClock("11:00")}
	after := append(before, *b)
	store.On("CreateBooking", ctx, b).Return(nil).Once()
	store.On("ListBookingsForEvent", mock.Anything, int64(1)).Return(after, nil).Once()
	require.NoError(t, svc.CreateBooking(ctx, b))

	got, err := svc.ListBookingsForEvent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
