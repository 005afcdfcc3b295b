package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"slotbook/internal/models"

	"github.com/spf13/cobra"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and create events",
	}
	cmd.AddCommand(newEventsListCmd(a))
	cmd.AddCommand(newEventsCreateCmd(a))
	return cmd
}

func newEventsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.store.ListEvents(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no events")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTITLE")
			for _, ev := range events {
				fmt.Fprintf(w, "%d\t%s\t%s\n", ev.ID, ev.DateString(), ev.Title)
			}
			return w.Flush()
		},
	}
}

func newEventsCreateCmd(a *app) *cobra.Command {
	var title, description, date string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse(models.DateLayout, date)
			if err != nil {
				return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}

			ev := &models.Event{Title: title, Description: description, Date: day}
			if err := a.store.CreateEvent(cmd.Context(), ev); err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created event %d %q on %s\n", ev.ID, ev.Title, ev.DateString())
			return nil
		},
	}

	c.Flags().StringVar(&title, "title", "", "event title")
	c.Flags().StringVar(&description, "description", "", "event description")
	c.Flags().StringVar(&date, "date", "", "event date, YYYY-MM-DD")
	_ = c.MarkFlagRequired("title")
	_ = c.MarkFlagRequired("date")
	return c
}
