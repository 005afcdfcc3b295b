package main

import (
	"fmt"

	"slotbook/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		eventID int64
		dir     string
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the bookings of an event to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ev, err := a.store.GetEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("failed to load event: %w", err)
			}
			bookings, err := a.store.ListBookingsForEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("failed to list bookings: %w", err)
			}

			if dir == "" {
				dir = a.cfg.Exports.Path
			}
			path, err := export.Bookings(dir, ev, bookings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bookings to %s\n", len(bookings), path)
			return nil
		},
	}

	c.Flags().Int64Var(&eventID, "event", 0, "event id")
	c.Flags().StringVar(&dir, "dir", "", "output directory (defaults to exports.path)")
	_ = c.MarkFlagRequired("event")
	return c
}
