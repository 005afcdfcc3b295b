package repository

import (
	"context"
	"sync"
	"time"

	"slotbook/internal/models"
)

type memoryEntry struct {
	bookings  []models.Booking
	expiresAt time.Time
}

// MemorySnapshotCache is the in-process fallback when redis is unavailable.
type MemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemorySnapshotCache) Get(_ context.Context, eventID int64) ([]models.Booking, bool, error) {
	r.mu.RLock()
	entry, ok := r.entries[eventID]
	r.mu.RUnlock()

	if !ok || (r.ttl > 0 && r.now().After(entry.expiresAt)) {
		return nil, false, nil
	}
	return append([]models.Booking(nil), entry.bookings...), true, nil
}

func (r *MemorySnapshotCache) Set(_ context.Context, eventID int64, bookings []models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[eventID] = memoryEntry{
		bookings:  append([]models.Booking{}, bookings...),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemorySnapshotCache) Invalidate(_ context.Context, eventID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, eventID)
	return nil
}
