package domain

import (
	"context"
	"time"

	"slotbook/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BookingStore is the authoritative owner of every event's booking set.
type BookingStore interface {
	ListBookingsForEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
	// CreateBooking persists the booking and fills in ID and CreatedAt.
	// It returns ErrSlotConflict when the interval overlaps an existing booking.
	CreateBooking(ctx context.Context, booking *models.Booking) error
}

type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
}

type Store interface {
	BookingStore
	EventStore
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SnapshotCache holds possibly-stale booking lists for list views.
// A miss is reported as (nil, false, nil).
type SnapshotCache interface {
	Get(ctx context.Context, eventID int64) ([]models.Booking, bool, error)
	Set(ctx context.Context, eventID int64, bookings []models.Booking) error
	Invalidate(ctx context.Context, eventID int64) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramService is the slice of the Bot API the booking bot drives.
type TelegramService interface {
	TelegramSender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetSelf() tgbotapi.User
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SheetsWriter interface {
	AppendBooking(ctx context.Context, event *models.Event, booking *models.Booking) error
}

type SyncWorker interface {
	EnqueueBooking(ctx context.Context, booking *models.Booking) error
}

type SyncQueueStore interface {
	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
	GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	UpdateSyncTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}
