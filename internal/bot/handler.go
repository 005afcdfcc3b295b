package bot

import (
	"context"
	"fmt"
	"strings"

	"slotbook/internal/service"
	"slotbook/internal/slot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.sendText(chatID, msgHelp)
		case "events":
			b.showEvents(ctx, chatID)
		case "cancel":
			b.sessions.reset(userID)
			b.sendText(chatID, msgCancelled)
		default:
			b.sendText(chatID, msgUnknownCommand)
		}
		return
	}

	sess, ok := b.sessions.get(userID)
	if !ok {
		b.sendText(chatID, msgPickEvent)
		return
	}
	b.handleStep(ctx, chatID, userID, sess, strings.TrimSpace(msg.Text))
}

func (b *Bot) showEvents(ctx context.Context, chatID int64) {
	events, err := b.events.ListEvents(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to list events")
		b.sendText(chatID, msgTryLater)
		return
	}
	if len(events) == 0 {
		b.sendText(chatID, msgNoEvents)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(events))
	for _, ev := range events {
		label := fmt.Sprintf("%s · %s", ev.Title, ev.DateString())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", callbackEvent, ev.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, msgChooseEvent)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

// handleStep stores the answer for the current step, then either asks the
// next question or submits. After a rejection only the offending fields are
// asked again; the rest of the input is kept.
func (b *Bot) handleStep(ctx context.Context, chatID, userID int64, sess *session, text string) {
	in := sess.Form.Input()

	var next bookingStep
	switch sess.Step {
	case stepName:
		in.Name = text
		next = stepEmail
		if in.Email != "" {
			next = stepReview
		}
	case stepEmail:
		in.Email = text
		next = stepStart
		if in.Start != "" {
			next = stepReview
		}
	case stepStart:
		in.Start = text
		next = stepEnd
	case stepEnd:
		in.End = text
		next = stepReview
	default:
		b.sendText(chatID, msgUseRetry)
		return
	}
	sess.Form.Set(in)

	if next != stepReview {
		sess.Step = next
		b.sendText(chatID, prompt(next, in))
		return
	}
	b.submit(ctx, chatID, userID, sess)
}

func (b *Bot) submit(ctx context.Context, chatID, userID int64, sess *session) {
	out := sess.Form.Submit(ctx)

	switch out.State {
	case service.StateAccepted:
		b.sessions.reset(userID)
		b.sendText(chatID, acceptedMessage(sess.EventTitle, out))
	case service.StateRejected:
		in := sess.Form.Input()
		sess.Step = correctionStep(out.Kind, in)
		b.sendText(chatID, rejectedMessage(out)+"\n\n"+prompt(sess.Step, in))
	default:
		sess.Step = stepReview
		b.logger.Warn().Err(out.Err).Str("kind", string(out.Kind)).Msg("booking attempt failed")
		msg := tgbotapi.NewMessage(chatID, failedMessage(out))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnRetry, callbackRetry),
		))
		b.send(msg)
	}
}

// correctionStep picks the first question to ask again after a rejection.
func correctionStep(kind service.Kind, in service.FormInput) bookingStep {
	switch kind {
	case service.KindInvalidContactInfo:
		if strings.TrimSpace(in.Name) == "" {
			return stepName
		}
		return stepEmail
	case service.KindInvalidInterval:
		if _, err := slot.ParseClock(in.Start); err == nil {
			if _, err := slot.ParseClock(in.End); err != nil {
				return stepEnd
			}
		}
		return stepStart
	default:
		return stepStart
	}
}
