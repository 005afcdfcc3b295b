package api

//go:generate protoc -I ../../proto --go_out=../.. --go_opt=module=slotbook --go-grpc_out=../.. --go-grpc_opt=module=slotbook availability/v1/availability.proto

import (
	"context"
	"errors"

	availabilityv1 "slotbook/internal/api/gen/availability/v1"
	"slotbook/internal/domain"
	"slotbook/internal/models"
	"slotbook/internal/slot"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AvailabilityStore is the read side the availability service needs.
type AvailabilityStore interface {
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
}

// AvailabilityService answers slot questions from the current booking set.
// Answers are advisory; CreateBooking still re-checks under its transaction.
type AvailabilityService struct {
	availabilityv1.UnimplementedAvailabilityServiceServer
	store AvailabilityStore
}

func NewAvailabilityService(store AvailabilityStore) *AvailabilityService {
	return &AvailabilityService{store: store}
}

func (s *AvailabilityService) CheckSlot(ctx context.Context, req *availabilityv1.CheckSlotRequest) (
	*availabilityv1.CheckSlotResponse, error) {
	if req.GetEventId() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "event_id is required")
	}

	start, err := slot.ParseClock(req.GetStartTime())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid start_time; expected HH:MM")
	}
	end, err := slot.ParseClock(req.GetEndTime())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid end_time; expected HH:MM")
	}
	candidate := slot.Interval{Start: start, End: end}
	if !candidate.Valid() {
		return &availabilityv1.CheckSlotResponse{Reason: "start_time must be before end_time"}, nil
	}

	bookings, err := s.bookings(ctx, req.GetEventId())
	if err != nil {
		return nil, err
	}

	existing := models.Intervals(bookings)
	if i, clash := slot.FirstConflict(candidate, existing); clash {
		return &availabilityv1.CheckSlotResponse{
			Conflict: toSlot(existing[i]),
			Reason:   "overlaps booking " + existing[i].String(),
		}, nil
	}
	return &availabilityv1.CheckSlotResponse{Admissible: true}, nil
}

func (s *AvailabilityService) ListBookedSlots(ctx context.Context, req *availabilityv1.ListBookedSlotsRequest) (
	*availabilityv1.ListBookedSlotsResponse, error) {
	if req.GetEventId() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "event_id is required")
	}

	bookings, err := s.bookings(ctx, req.GetEventId())
	if err != nil {
		return nil, err
	}

	out := make([]*availabilityv1.Slot, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toSlot(b.Interval()))
	}
	return &availabilityv1.ListBookedSlotsResponse{EventId: req.GetEventId(), Slots: out}, nil
}

func (s *AvailabilityService) bookings(ctx context.Context, eventID int64) ([]models.Booking, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, status.Error(codes.NotFound, "event not found")
		}
		return nil, status.Error(codes.Internal, "failed to get event")
	}

	bookings, err := s.store.ListBookingsForEvent(ctx, eventID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list bookings")
	}
	return bookings, nil
}

func toSlot(i slot.Interval) *availabilityv1.Slot {
	return &availabilityv1.Slot{StartTime: i.Start.String(), EndTime: i.End.String()}
}
