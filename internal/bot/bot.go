// Package bot lets attendees book event slots through a Telegram chat.
package bot

import (
	"context"
	"time"

	"slotbook/internal/config"
	"slotbook/internal/domain"
	"slotbook/internal/metrics"
	"slotbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	tg        domain.TelegramService
	events    domain.EventStore
	admission service.Admitter
	sessions  *sessionStore
	limiter   *userLimiter
	logger    zerolog.Logger
}

func NewBot(
	tg domain.TelegramService,
	cfg config.TelegramConfig,
	eventStore domain.EventStore,
	admission service.Admitter,
	logger *zerolog.Logger,
) *Bot {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "booking_bot").Logger()
	}

	return &Bot{
		tg:        tg,
		events:    eventStore,
		admission: admission,
		sessions:  newSessionStore(),
		limiter:   newUserLimiter(cfg.RateLimitMessages, time.Duration(cfg.RateLimitWindow)*time.Second),
		logger:    l,
	}
}

// Start consumes updates until ctx is cancelled or the channel closes.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)
	defer b.tg.StopReceivingUpdates()

	b.logger.Info().Str("username", b.tg.GetSelf().UserName).Msg("booking bot started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("booking bot stopping")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() { metrics.ObserveBotUpdate(time.Since(start)) }()

	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	l := b.logger.With().Str("request_id", uuid.NewString()).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var userID int64
		switch {
		case update.Message != nil && update.Message.From != nil:
			userID = update.Message.From.ID
		case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
			userID = update.CallbackQuery.From.ID
		}
		if userID == 0 {
			return
		}

		if !b.limiter.allow(userID) {
			l.Warn().Int64("user_id", userID).Msg("rate limit exceeded")
			if update.Message != nil {
				b.sendText(update.Message.Chat.ID, msgSlowDown)
			}
			return
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
			return
		}
		if update.Message != nil {
			b.handleMessage(updateCtx, update.Message)
		}
	})
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.tg.Send(c); err != nil {
		b.logger.Error().Err(err).Msg("failed to send telegram message")
	}
}
