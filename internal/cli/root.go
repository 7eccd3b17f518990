// Package cli implements the cartctl commands on top of storefront.App.
package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopfront/cart-sync/internal/storefront"
)

// AppFactory builds the client for one command invocation.
type AppFactory func(ctx context.Context, opts *RootOptions) (*storefront.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "json" | "text"
	FlushTimeout time.Duration

	newApp AppFactory
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the cartctl root command.
func NewRootCommand(newApp AppFactory) *cobra.Command {
	opts := &RootOptions{newApp: newApp}

	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Storefront cart client",
		Long: `cartctl keeps a shopping cart in a local store and syncs it with cartd.

Guests keep their cart locally. After login or register the guest cart is
merged into the account cart and every change is written both locally and
to the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.FlushTimeout, "flush-timeout", 10*time.Second, "how long to wait for pending syncs before exiting")

	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newWhoamiCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newClearCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newMergeCommand(opts))
	cmd.AddCommand(newCheckoutCommand(opts))
	cmd.AddCommand(newOrdersCommand(opts))

	return cmd
}

// withApp builds and starts the client, runs fn, then waits for pending
// syncs so that a write issued by fn is not lost when the process exits.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *storefront.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := opts.newApp(ctx, opts)
	if err != nil {
		return err
	}
	app.Start(ctx)

	runErr := fn(ctx, app)

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.FlushTimeout)
	defer cancel()
	if err := app.Close(flushCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush pending syncs: %w", err)
	}
	return runErr
}
