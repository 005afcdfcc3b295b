package bot

import (
	"fmt"

	"slotbook/internal/service"
)

const (
	msgHelp = "Book a time slot for an event.\n\n" +
		"/events - choose an event\n" +
		"/cancel - drop the booking in progress"
	msgChooseEvent    = "Choose an event:"
	msgNoEvents       = "There are no events to book yet."
	msgPickEvent      = "Use /events to choose an event first."
	msgEventGone      = "That event no longer exists. Use /events to choose another one."
	msgCancelled      = "Booking cancelled."
	msgUnknownCommand = "Unknown command. Try /help."
	msgTryLater       = "Something went wrong. Please try again later."
	msgSlowDown       = "You are sending messages too fast. Please wait a moment."
	msgUseRetry       = "Tap \"Try again\" to resubmit, or /cancel."
	msgNothingToRetry = "There is nothing to resubmit. Use /events to start a booking."

	btnRetry = "Try again"
)

func bookingIntro(title, date string) string {
	return fmt.Sprintf("Booking %s on %s.", title, date)
}

// prompt asks for the field of step, showing what was typed before.
func prompt(step bookingStep, in service.FormInput) string {
	var q, current string
	switch step {
	case stepName:
		q, current = "What is your name?", in.Name
	case stepEmail:
		q, current = "What is your email?", in.Email
	case stepStart:
		q, current = "Start time (HH:MM)?", in.Start
	case stepEnd:
		q, current = "End time (HH:MM)?", in.End
	default:
		return msgUseRetry
	}
	if current == "" {
		return q
	}
	return fmt.Sprintf("%s Currently: %s", q, current)
}

func acceptedMessage(title string, out service.Outcome) string {
	return fmt.Sprintf("✅ Booked %s, %s.\nBooking number: %d", title, out.Booking.Interval(), out.Booking.ID)
}

func rejectedMessage(out service.Outcome) string {
	switch out.Kind {
	case service.KindSlotConflict:
		return "⚠️ That time is already taken: " + out.Reason + ". Please pick another slot."
	case service.KindInvalidInterval:
		return "⚠️ " + out.Reason + "."
	case service.KindInvalidContactInfo:
		return "⚠️ Please check your details: " + out.Reason + "."
	default:
		return "⚠️ " + out.Reason
	}
}

func failedMessage(out service.Outcome) string {
	if out.Kind == service.KindFetchError {
		return "❌ Could not check availability right now. Your details are kept."
	}
	return "❌ Could not save the booking right now. Your details are kept."
}
