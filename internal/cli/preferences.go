package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/di"
)

func newDarkModeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "darkmode [on|off|toggle]",
		Short:     "Show or change the dark mode preference",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				var err error
				switch {
				case len(args) == 0:
				case args[0] == "toggle":
					_, err = c.Manager.ToggleDarkMode(ctx)
				default:
					err = c.Manager.SetDarkMode(ctx, args[0] == "on")
				}
				if err != nil {
					return operationError(err)
				}

				v := darkModeView{DarkMode: c.Manager.DarkMode()}
				return p.Print(v, func(w io.Writer) {
					if v.DarkMode {
						fmt.Fprintln(w, "Dark mode is on.")
					} else {
						fmt.Fprintln(w, "Dark mode is off.")
					}
				})
			})
		},
	}
}
