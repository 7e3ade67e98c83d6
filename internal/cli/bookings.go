package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/di"
)

const noBookings = "No bookings yet."

func newBookingsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage confirmed bookings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List confirmed bookings held locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, c *di.Client, p *Printer) error {
				views := recordViews(c.Manager.BookingRecords())
				return p.Print(views, func(w io.Writer) { renderBookings(w, views, noBookings) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Replace local bookings with the server's list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				records, err := c.Manager.SyncBookings(ctx)
				if err != nil {
					return operationError(err)
				}
				views := recordViews(records)
				return p.Print(views, func(w io.Writer) { renderBookings(w, views, noBookings) })
			})
		},
	})

	var f detailFlags
	update := &cobra.Command{
		Use:   "update <booking-id>",
		Short: "Change a confirmed booking",
		Long:  "Change a confirmed booking. Only the flags you give are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := f.patch(cmd)
			if patch.IsEmpty() {
				return NewExitError(ExitCommandError, "nothing to update: give at least one field flag")
			}
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				record, err := c.Manager.UpdateBookingRecord(ctx, args[0], patch)
				if err != nil {
					return operationError(err)
				}
				v := newBookingView(record.ServerID, record.BookingDetails)
				return p.Print(v, func(w io.Writer) { renderBooking(w, v) })
			})
		},
	}
	f.register(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:     "delete <booking-id>",
		Aliases: []string{"rm"},
		Short:   "Cancel a confirmed booking",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				if err := c.Manager.DeleteBookingRecord(ctx, args[0]); err != nil {
					return operationError(err)
				}
				return p.Message("Booking deleted.")
			})
		},
	})

	return cmd
}
