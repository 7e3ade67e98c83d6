// Package cli is the weddingwise command-line interface: the view layer over
// the booking manager.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/di"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format      string // "text" | "json" | "yaml"
	EnvFile     string
	APIURL      string
	SessionPath string
	LogLevel    string
}

func (o *RootOptions) overrides() config.Overrides {
	return config.Overrides{
		LogLevel:    o.LogLevel,
		APIURL:      o.APIURL,
		SessionPath: o.SessionPath,
		EnvFile:     o.EnvFile,
	}
}

// NewRootCommand creates the root command for the weddingwise CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "weddingwise",
		Short: "Plan and book your wedding from the terminal",
		Long: `weddingwise books wedding events and vendors.

Add events and vendors to your cart, then confirm them all at once. Your
session, cart and preferences are kept between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to a .env file (default: ./.env)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "booking API root, including the /api prefix")
	cmd.PersistentFlags().StringVar(&opts.SessionPath, "session-path", "", "session store directory (default: ~/.weddingwise/session)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newWhoamiCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newPasswordCommand(opts))
	cmd.AddCommand(newProfileCommand(opts))
	cmd.AddCommand(newContactCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	cmd.AddCommand(newVendorsCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newConfirmCommand(opts))
	cmd.AddCommand(newBookingsCommand(opts))
	cmd.AddCommand(newDarkModeCommand(opts))
	cmd.AddCommand(newBudgetCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	printError(stderr, err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Cobra's own errors: unknown command, bad flag, wrong argument count.
	return ExitCommandError
}

// run starts the client services, calls fn, and shuts the services down.
func (o *RootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, c *di.Client, p *Printer) error) error {
	injector := di.NewClientContainer(o.overrides())

	client, err := di.BootstrapClient(injector)
	if err != nil {
		di.Shutdown(injector, nil)
		return WrapExitError(ExitCommandError, "failed to start", err)
	}
	defer di.Shutdown(injector, client.Logger)

	p := &Printer{Format: o.Format, Writer: cmd.OutOrStdout()}
	return fn(cmd.Context(), client, p)
}
