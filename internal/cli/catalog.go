package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/di"
	"github.com/weddingwise/weddingwise-client/internal/domain"
)

func newEventsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse bookable events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				events, err := c.Manager.ListEvents(ctx)
				if err != nil {
					return operationError(err)
				}
				views := eventViews(events)
				return p.Print(views, func(w io.Writer) { renderCatalog(w, views) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				event, err := c.Manager.GetEvent(ctx, args[0])
				if err != nil {
					return operationError(err)
				}
				v := eventViews([]domain.Event{*event})[0]
				return p.Print(v, func(w io.Writer) { renderCatalogEntry(w, v) })
			})
		},
	})

	return cmd
}

func newVendorsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Browse bookable vendors",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List vendors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				vendors, err := c.Manager.ListVendors(ctx)
				if err != nil {
					return operationError(err)
				}
				views := vendorViews(vendors)
				return p.Print(views, func(w io.Writer) { renderCatalog(w, views) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				vendor, err := c.Manager.GetVendor(ctx, args[0])
				if err != nil {
					return operationError(err)
				}
				v := vendorViews([]domain.Vendor{*vendor})[0]
				return p.Print(v, func(w io.Writer) { renderCatalogEntry(w, v) })
			})
		},
	})

	return cmd
}
