package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/weddingwise/weddingwise-client/internal/di"
	"github.com/weddingwise/weddingwise-client/internal/domain"
)

func newLoginCommand(opts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				if err := c.Manager.SignIn(ctx, email, password); err != nil {
					return operationError(err)
				}
				identity := c.Manager.Identity()
				return p.Print(newIdentityView(identity), func(w io.Writer) {
					fmt.Fprintf(w, "Logged in as %s <%s>\n", identity.Name, identity.Email)
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				c.Manager.Logout(ctx)
				return p.Message("Logged out.")
			})
		},
	}
}

func newWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(_ context.Context, c *di.Client, p *Printer) error {
				v := sessionView{
					State:    c.Manager.State().String(),
					Identity: newIdentityView(c.Manager.Identity()),
					Cart:     len(c.Manager.Cart()),
					Bookings: len(c.Manager.BookingRecords()),
					DarkMode: c.Manager.DarkMode(),
				}
				return p.Print(v, func(w io.Writer) { renderSession(w, v) })
			})
		},
	}
}

func newRegisterCommand(opts *RootOptions) *cobra.Command {
	var r domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. Registering does not sign you in; run login afterwards.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.ConfirmPassword == "" {
				r.ConfirmPassword = r.Password
			}
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				msg, err := c.Manager.Register(ctx, r)
				if err != nil {
					return operationError(err)
				}
				return p.Message(msg)
			})
		},
	}

	cmd.Flags().StringVar(&r.Name, "name", "", "your name")
	cmd.Flags().StringVar(&r.Email, "email", "", "account email")
	cmd.Flags().StringVar(&r.Password, "password", "", "password: at least 6 characters with a number and a symbol")
	cmd.Flags().StringVar(&r.ConfirmPassword, "confirm-password", "", "repeat the password (default: same as --password)")
	return cmd
}

func newPasswordCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
	}

	var email string
	request := &cobra.Command{
		Use:   "request",
		Short: "Email a password reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				msg, err := c.Manager.RequestPasswordReset(ctx, email)
				if err != nil {
					return operationError(err)
				}
				return p.Message(msg)
			})
		},
	}
	request.Flags().StringVar(&email, "email", "", "account email")

	var r domain.PasswordReset
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using the emailed token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.ConfirmPassword == "" {
				r.ConfirmPassword = r.NewPassword
			}
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				msg, err := c.Manager.ResetPassword(ctx, r)
				if err != nil {
					return operationError(err)
				}
				return p.Message(msg)
			})
		},
	}
	reset.Flags().StringVar(&r.Token, "token", "", "reset token from the email")
	reset.Flags().StringVar(&r.NewPassword, "password", "", "new password")
	reset.Flags().StringVar(&r.ConfirmPassword, "confirm-password", "", "repeat the new password (default: same as --password)")

	cmd.AddCommand(request, reset)
	return cmd
}

func newProfileCommand(opts *RootOptions) *cobra.Command {
	var update domain.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your name and email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := cmd.Flags().Changed("name") || cmd.Flags().Changed("email")
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				identity := c.Manager.Identity()
				if !changed {
					if identity == nil {
						return NewExitError(ExitFailure, "Not logged in.")
					}
					return p.Print(newIdentityView(identity), func(w io.Writer) {
						fmt.Fprintf(w, "%s <%s>\n", identity.Name, identity.Email)
					})
				}

				if identity != nil {
					if !cmd.Flags().Changed("name") {
						update.Name = identity.Name
					}
					if !cmd.Flags().Changed("email") {
						update.Email = identity.Email
					}
				}
				updated, err := c.Manager.UpdateProfile(ctx, update)
				if err != nil {
					return operationError(err)
				}
				return p.Print(newIdentityView(updated), func(w io.Writer) {
					fmt.Fprintf(w, "Profile updated: %s <%s>\n", updated.Name, updated.Email)
				})
			})
		},
	}

	cmd.Flags().StringVar(&update.Name, "name", "", "new name")
	cmd.Flags().StringVar(&update.Email, "email", "", "new email")
	return cmd
}

func newContactCommand(opts *RootOptions) *cobra.Command {
	var msg domain.ContactMessage

	cmd := &cobra.Command{
		Use:   "contact <message>",
		Short: "Send a message to the WeddingWise team",
		Long:  "Send a message to the WeddingWise team. When signed in, your name and email are used unless given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg.Message = args[0]
			return opts.run(cmd, func(ctx context.Context, c *di.Client, p *Printer) error {
				reply, err := c.Manager.SendContact(ctx, msg)
				if err != nil {
					return operationError(err)
				}
				return p.Message(reply)
			})
		},
	}

	cmd.Flags().StringVar(&msg.Name, "name", "", "your name")
	cmd.Flags().StringVar(&msg.Email, "email", "", "your email")
	return cmd
}
