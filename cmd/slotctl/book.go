package main

import (
	"errors"
	"fmt"

	"slotbook/internal/events"
	"slotbook/internal/service"

	"github.com/spf13/cobra"
)

// errNotAdmitted makes the process exit non-zero after the outcome is printed.
var errNotAdmitted = errors.New("booking was not admitted")

func newBookCmd(a *app) *cobra.Command {
	var (
		eventID int64
		input   service.FormInput
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Book a slot in an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admission := service.NewAdmission(a.store, events.NewEventBus(), a.logger)
			form := service.NewBookingForm(admission, eventID)
			form.Set(input)

			out := form.Submit(cmd.Context())
			w := cmd.OutOrStdout()
			switch out.State {
			case service.StateAccepted:
				fmt.Fprintf(w, "accepted: booking %d for %s\n", out.Booking.ID, out.Booking.Interval())
				return nil
			case service.StateRejected:
				fmt.Fprintf(w, "rejected (%s): %s\n", out.Kind, out.Reason)
			default:
				fmt.Fprintf(w, "failed (%s): %s\n", out.Kind, out.Reason)
				a.logger.Debug().Err(out.Err).Msg("admission failed")
			}
			return errNotAdmitted
		},
	}

	c.Flags().Int64Var(&eventID, "event", 0, "event id")
	c.Flags().StringVar(&input.Name, "name", "", "attendee name")
	c.Flags().StringVar(&input.Email, "email", "", "attendee email")
	c.Flags().StringVar(&input.Start, "start", "", "start time, HH:MM")
	c.Flags().StringVar(&input.End, "end", "", "end time, HH:MM")
	_ = c.MarkFlagRequired("event")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}
