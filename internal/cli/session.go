package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/shopfront/cart-sync/internal/core/ports"
	"github.com/shopfront/cart-sync/internal/storefront"
)

func newLoginCommand(opts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and merge the guest cart into the account cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				if _, err := app.Session.Login(ctx, email, password); err != nil {
					return err
				}
				return printCart(ctx, cmd, opts, app, nil)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(opts *RootOptions) *cobra.Command {
	var in ports.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account, sign in and keep the guest cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				if _, err := app.Session.Register(ctx, in); err != nil {
					return err
				}
				return printCart(ctx, cmd, opts, app, nil)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "shipping address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out. The account cart stays on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				if err := app.Session.Logout(ctx); err != nil {
					return err
				}
				return printWhoami(cmd, opts, app)
			})
		},
	}
}

func newWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				return printWhoami(cmd, opts, app)
			})
		},
	}
}

func newMergeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Retry merging a guest cart left behind by an earlier sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				identity := app.Session.CurrentIdentity()
				if identity.IsGuest() {
					return errors.New("merge: sign in first")
				}
				_, merged := app.Cart.MergeGuestCart(ctx, identity.UserID)
				if !merged && app.Cart.GuestPending(ctx) {
					return errors.New("merge: server unreachable, guest cart kept for the next attempt")
				}
				return printCart(ctx, cmd, opts, app, &merged)
			})
		},
	}
}
