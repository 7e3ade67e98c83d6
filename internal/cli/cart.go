package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/booking"
	"github.com/weddingwise/weddingwise-client/internal/di"
	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// detailFlags are the booking fields shared by the add and update commands.
type detailFlags struct {
	kind   string
	ref    string
	title  string
	name   string
	email  string
	date   string
	guests int
}

func (f *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ref, "ref", "", "catalog identifier of the event or vendor")
	cmd.Flags().StringVar(&f.title, "title", "", "event title or vendor name (default: looked up from --ref)")
	cmd.Flags().StringVar(&f.name, "name", "", "name on the booking (default: your profile name)")
	cmd.Flags().StringVar(&f.email, "email", "", "email on the booking (default: your profile email)")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().IntVar(&f.guests, "guests", 0, "number of guests")
}

// details builds new booking details, filling blanks from the catalog and
// the signed-in profile.
func (f *detailFlags) details(ctx context.Context, m *booking.Manager) (domain.BookingDetails, error) {
	d := domain.BookingDetails{
		Kind:           domain.Kind(strings.ToLower(f.kind)),
		TargetRef:      f.ref,
		DisplayName:    f.title,
		RequesterName:  f.name,
		RequesterEmail: f.email,
		Date:           f.date,
		GuestCount:     f.guests,
	}

	if d.DisplayName == "" && d.TargetRef != "" {
		switch d.Kind {
		case domain.KindEvent:
			event, err := m.GetEvent(ctx, d.TargetRef)
			if err != nil {
				return d, err
			}
			d.DisplayName = event.Title
		case domain.KindVendor:
			vendor, err := m.GetVendor(ctx, d.TargetRef)
			if err != nil {
				return d, err
			}
			d.DisplayName = vendor.Name
		}
	}

	if identity := m.Identity(); identity != nil {
		if d.RequesterName == "" {
			d.RequesterName = identity.Name
		}
		if d.RequesterEmail == "" {
			d.RequesterEmail = identity.Email
		}
	}
	return d, nil
}

// patch returns the fields the user set explicitly.
func (f *detailFlags) patch(cmd *cobra.Command) domain.DetailsPatch {
	var p domain.DetailsPatch
	flags := cmd.Flags()
	if flags.Changed("ref") {
		p.TargetRef = &f.ref
	}
	if flags.Changed("title") {
		p.DisplayName = &f.title
	}
	if flags.Changed("name") {
		p.RequesterName = &f.name
	}
	if flags.Changed("email") {
		p.RequesterEmail = &f.email
	}
	if flags.Changed("date") {
		p.Date = &f.date
	}
	if flags.Changed("guests") {
		p.GuestCount = &f.guests
	}
	return p
}

func newCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage bookings waiting for confirmation",
	}
	cmd.AddCommand(newCartAddCommand(opts))
	cmd.AddCommand(newCartListCommand(opts))
	cmd.AddCommand(newCartUpdateCommand(opts))
	cmd.AddCommand(newCartRemoveCommand(opts))
	return cmd
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	var f detailFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event or vendor booking to the cart",
		Example: `  weddingwise cart add --kind event --ref e2 --date 2025-06-01 --guests 50
  weddingwise cart add --kind vendor --title "ABC Catering" --date 2025-06-01 --guests 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				d, err := f.details(ctx, c.Manager)
				if err != nil {
					return operationError(err)
				}
				item, err := c.Manager.AddToCart(ctx, d)
				if err != nil {
					return operationError(err)
				}
				v := newBookingView(item.ID, item.BookingDetails)
				return p.Print(v, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s to your cart (%s).\n", v.DisplayName, v.ID)
				})
			})
		},
	}

	cmd.Flags().StringVar(&f.kind, "kind", string(domain.KindEvent), "event or vendor")
	f.register(cmd)
	return cmd
}

func newCartListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, c *di.Client, p *Printer) error {
				views := cartViews(c.Manager.Cart())
				return p.Print(views, func(w io.Writer) { renderBookings(w, views, "Your cart is empty.") })
			})
		},
	}
}

func newCartUpdateCommand(opts *RootOptions) *cobra.Command {
	var f detailFlags

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change a cart item",
		Long:  "Change a cart item. Only the flags you give are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := f.patch(cmd)
			if patch.IsEmpty() {
				return NewExitError(ExitCommandError, "nothing to update: give at least one field flag")
			}
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				item, err := c.Manager.UpdateCartItem(ctx, args[0], patch)
				if err != nil {
					return operationError(err)
				}
				v := newBookingView(item.ID, item.BookingDetails)
				return p.Print(v, func(w io.Writer) { renderBooking(w, v) })
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				if err := c.Manager.RemoveFromCart(ctx, args[0]); err != nil {
					return operationError(err)
				}
				return p.Message("Removed from cart.")
			})
		},
	}
}

func newConfirmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm",
		Short: "Confirm every booking in the cart",
		Long: `Confirm every booking in the cart at once. You must be logged in.

If confirmation fails part way, the cart is kept and running confirm again
picks up where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				records, err := c.Manager.ConfirmBookings(ctx)
				if err != nil {
					return operationError(err)
				}
				views := recordViews(records)
				return p.Print(views, func(w io.Writer) {
					fmt.Fprintf(w, "Confirmed %d booking(s). A confirmation email is on its way.\n", len(views))
					renderBookings(w, views, "")
				})
			})
		},
	}
}
