package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

type EventService struct {
	store     domain.EventStore
	publisher domain.EventPublisher
	logger    zerolog.Logger
}

func NewEventService(store domain.EventStore, publisher domain.EventPublisher, logger *zerolog.Logger) *EventService {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "event_service").Logger()
	}
	return &EventService{store: store, publisher: publisher, logger: l}
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.store.ListEvents(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.store.GetEvent(ctx, id)
}

// CreateEvent validates and stores a new event. date is YYYY-MM-DD.
func (s *EventService) CreateEvent(ctx context.Context, title, description, date string) (*models.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	day, err := time.Parse(models.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEvent)
	}

	event := &models.Event{
		Title:       title,
		Description: strings.TrimSpace(description),
		Date:        day,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishJSON(events.EventCreated, events.EventCreatedPayload{Event: *event}); err != nil {
			s.logger.Error().Err(err).Int64("event_id", event.ID).Msg("failed to publish event_created")
		}
	}
	s.logger.Info().Int64("event_id", event.ID).Str("title", event.Title).Msg("event created")
	return event, nil
}
