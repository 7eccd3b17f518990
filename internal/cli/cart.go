package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shopfront/cart-sync/internal/storefront"
)

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", s)
	}
	return q, nil
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to the cart (quantity defaults to 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				q, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				qty = q
			}
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				lines, h := app.Cart.AddLine(ctx, args[0], qty)
				return printSync(ctx, cmd, opts, lines, h)
			})
		},
	}
}

func newRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a product from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				lines, h := app.Cart.RemoveLine(ctx, args[0])
				return printSync(ctx, cmd, opts, lines, h)
			})
		},
	}
}

func newSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a product already in the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				lines, h := app.Cart.SetQuantity(ctx, args[0], qty)
				return printSync(ctx, cmd, opts, lines, h)
			})
		},
	}
}

func newClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart and delete its stored copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				app.Cart.Clear(ctx)
				return printCart(ctx, cmd, opts, app, nil)
			})
		},
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart priced against the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				return printCart(ctx, cmd, opts, app, nil)
			})
		},
	}
}
