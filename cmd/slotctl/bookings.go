package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect bookings",
	}
	cmd.AddCommand(newBookingsListCmd(a))
	return cmd
}

func newBookingsListCmd(a *app) *cobra.Command {
	var eventID int64

	c := &cobra.Command{
		Use:   "list",
		Short: "List the bookings of an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := a.store.ListBookingsForEvent(cmd.Context(), eventID)
			if err != nil {
				return fmt.Errorf("failed to list bookings: %w", err)
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no bookings")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLOT\tNAME\tEMAIL")
			for _, b := range bookings {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.Interval(), b.Name, b.Email)
			}
			return w.Flush()
		},
	}

	c.Flags().Int64Var(&eventID, "event", 0, "event id")
	_ = c.MarkFlagRequired("event")
	return c
}
