package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/storefront"
)

func newCheckoutCommand(opts *RootOptions) *cobra.Command {
	var shipping domain.ShippingInfo

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the account cart and empty it",
		Long: `checkout sends the account cart to cartd as a pending order. Prices come
from the catalog. The cart is cleared locally and on the server only after
the order is accepted.

Name, email, phone and address default to the signed-in profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				if su, ok := app.Session.CurrentUser(); ok {
					fillShipping(&shipping, su.User)
				}
				order, err := app.Checkout(ctx, shipping)
				if err != nil {
					return err
				}
				return printOrders(cmd, opts, []domain.Order{*order})
			})
		},
	}
	cmd.Flags().StringVar(&shipping.Name, "name", "", "recipient name")
	cmd.Flags().StringVarP(&shipping.Email, "email", "e", "", "contact email")
	cmd.Flags().StringVar(&shipping.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&shipping.Address, "address", "", "street address")
	cmd.Flags().StringVar(&shipping.City, "city", "", "city")
	cmd.Flags().StringVar(&shipping.ZipCode, "zip", "", "5 digit ZIP code")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("zip")
	return cmd
}

// fillShipping copies profile fields into the blanks of s.
func fillShipping(s *domain.ShippingInfo, u domain.User) {
	if s.Name == "" {
		s.Name = u.Name
	}
	if s.Email == "" {
		s.Email = u.Email
	}
	if s.Phone == "" {
		s.Phone = u.Phone
	}
	if s.Address == "" {
		s.Address = u.Address
	}
}

func newOrdersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List the signed-in account's orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *storefront.App) error {
				orders, err := app.Orders(ctx)
				if err != nil {
					return err
				}
				return printOrders(cmd, opts, orders)
			})
		},
	}
}

func printOrders(cmd *cobra.Command, opts *RootOptions, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, orders)
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no orders"))
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ORDER", "DATE", "STATUS", "ITEMS", "TOTAL")
	for _, o := range orders {
		items := 0
		for _, l := range o.Items {
			items += l.Quantity
		}
		t.Row(o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, strconv.Itoa(items), money(o.Total))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
