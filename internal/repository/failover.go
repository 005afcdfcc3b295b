package repository

import (
	"context"
	"sync"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverSnapshotCache serves from primary until it errors, then from the
// fallback, probing the primary again once per recoveryInterval.
type FailoverSnapshotCache struct {
	primary  domain.SnapshotCache
	fallback domain.SnapshotCache
	logger   zerolog.Logger

	mu        sync.Mutex
	isDown    bool
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverSnapshotCache(primary, fallback domain.SnapshotCache, logger *zerolog.Logger) *FailoverSnapshotCache {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "snapshot_cache").Logger()
	}
	return &FailoverSnapshotCache{
		primary:  primary,
		fallback: fallback,
		logger:   l,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should try the primary cache.
func (r *FailoverSnapshotCache) usePrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isDown {
		return true
	}
	if r.now().Sub(r.lastCheck) > recoveryInterval {
		r.lastCheck = r.now()
		return true
	}
	return false
}

func (r *FailoverSnapshotCache) markDown(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isDown {
		r.logger.Error().Err(err).Msg("primary snapshot cache failed, falling back to memory")
	}
	r.isDown = true
	r.lastCheck = r.now()
}

func (r *FailoverSnapshotCache) markUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isDown {
		r.logger.Info().Msg("primary snapshot cache recovered")
	}
	r.isDown = false
}

func (r *FailoverSnapshotCache) Get(ctx context.Context, eventID int64) ([]models.Booking, bool, error) {
	if r.usePrimary() {
		bookings, ok, err := r.primary.Get(ctx, eventID)
		if err == nil {
			r.markUp()
			return bookings, ok, nil
		}
		r.markDown(err)
	}
	return r.fallback.Get(ctx, eventID)
}

func (r *FailoverSnapshotCache) Set(ctx context.Context, eventID int64, bookings []models.Booking) error {
	if r.usePrimary() {
		err := r.primary.Set(ctx, eventID, bookings)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Set(ctx, eventID, bookings)
}

// Invalidate always clears the fallback too, since it may hold entries
// written while the primary was down.
func (r *FailoverSnapshotCache) Invalidate(ctx context.Context, eventID int64) error {
	fallbackErr := r.fallback.Invalidate(ctx, eventID)
	if r.usePrimary() {
		err := r.primary.Invalidate(ctx, eventID)
		if err == nil {
			r.markUp()
			return fallbackErr
		}
		r.markDown(err)
	}
	return fallbackErr
}
