package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/di"
)

func newBudgetCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Track wedding costs",
	}

	printBudget := func(c *di.Client, p *Printer) error {
		v := newBudgetView(c.Budget.Items(), c.Budget.Total())
		return p.Print(v, func(w io.Writer) { renderBudget(w, v) })
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List budget items and the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, c *di.Client, p *Printer) error {
				return printBudget(c, p)
			})
		},
	})

	var name string
	var cost float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a budget item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				item, err := c.Budget.Add(ctx, name, cost)
				if err != nil {
					return operationError(err)
				}
				v := budgetItemView{ID: item.ID, Name: item.Name, Cost: item.Cost}
				return p.Print(v, func(w io.Writer) {
					fmt.Fprintf(w, "Added %s (%.2f) as item %d.\n", v.Name, v.Cost, v.ID)
				})
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "item name")
	add.Flags().Float64Var(&cost, "cost", 0, "item cost")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a budget item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid budget item id %q", args[0]))
			}
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				if err := c.Budget.Remove(ctx, id); err != nil {
					return operationError(err)
				}
				return printBudget(c, p)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				if err := c.Budget.Reset(ctx); err != nil {
					return operationError(err)
				}
				return printBudget(c, p)
			})
		},
	})

	return cmd
}
