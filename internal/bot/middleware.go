package bot

import (
	"sync"
	"time"

	"slotbook/internal/metrics"

	"golang.org/x/time/rate"
)

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncBotPanic()
			b.logger.Error().Interface("panic", r).Msg("recovered from panic in update handler")
		}
	}()
	handler()
}

// userLimiter allows each user a burst of n messages refilled over window.
// A non-positive n disables limiting.
type userLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	perUser map[int64]*rate.Limiter
}

func newUserLimiter(n int, window time.Duration) *userLimiter {
	ul := &userLimiter{burst: n, perUser: make(map[int64]*rate.Limiter)}
	if n > 0 && window > 0 {
		ul.every = rate.Every(window / time.Duration(n))
	}
	return ul
}

func (ul *userLimiter) allow(userID int64) bool {
	if ul.burst <= 0 || ul.every == 0 {
		return true
	}

	ul.mu.Lock()
	lim, ok := ul.perUser[userID]
	if !ok {
		lim = rate.NewLimiter(ul.every, ul.burst)
		ul.perUser[userID] = lim
	}
	ul.mu.Unlock()

	return lim.Allow()
}
