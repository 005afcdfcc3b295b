package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"slotbook/internal/domain"
	"slotbook/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackEvent = "event:"
	callbackRetry = "retry"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.tg.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Debug().Err(err).Msg("failed to answer callback")
	}

	chatID := q.From.ID
	if q.Message != nil && q.Message.Chat != nil {
		chatID = q.Message.Chat.ID
	}
	userID := q.From.ID

	switch data := q.Data; {
	case strings.HasPrefix(data, callbackEvent):
		eventID, err := strconv.ParseInt(strings.TrimPrefix(data, callbackEvent), 10, 64)
		if err != nil {
			b.sendText(chatID, msgPickEvent)
			return
		}
		b.startBooking(ctx, chatID, userID, eventID)
	case data == callbackRetry:
		sess, ok := b.sessions.get(userID)
		if !ok || sess.Step != stepReview {
			b.sendText(chatID, msgNothingToRetry)
			return
		}
		b.submit(ctx, chatID, userID, sess)
	default:
		b.logger.Debug().Str("data", data).Msg("unknown callback")
	}
}

// startBooking replaces any conversation in progress with a fresh form.
func (b *Bot) startBooking(ctx context.Context, chatID, userID, eventID int64) {
	ev, err := b.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			b.sendText(chatID, msgEventGone)
			return
		}
		b.logger.Error().Err(err).Int64("event_id", eventID).Msg("failed to load event")
		b.sendText(chatID, msgTryLater)
		return
	}

	sess := &session{
		Step:       stepName,
		EventTitle: ev.Title,
		Form:       service.NewBookingForm(b.admission, ev.ID),
	}
	b.sessions.put(userID, sess)
	b.sendText(chatID, bookingIntro(ev.Title, ev.DateString())+"\n\n"+prompt(stepName, service.FormInput{}))
}
