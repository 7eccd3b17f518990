package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/service"
	"github.com/shopfront/cart-sync/internal/storefront"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type cartOutput struct {
	storefront.CartView
	Merged       *bool  `json:"merged,omitempty"`
	CatalogError string `json:"catalogError,omitempty"`
}

type syncOutput struct {
	Scope        string      `json:"scope"`
	Lines        domain.Cart `json:"lines"`
	RemoteSynced bool        `json:"remoteSynced"`
	Error        string      `json:"error,omitempty"`
}

type whoamiOutput struct {
	Scope string       `json:"scope"`
	User  *domain.User `json:"user,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCart renders the priced cart. When the catalog cannot be reached the
// lines are still listed, without prices.
func printCart(ctx context.Context, cmd *cobra.Command, opts *RootOptions, app *storefront.App, merged *bool) error {
	out := cartOutput{Merged: merged}

	view, err := app.View(ctx)
	if err != nil {
		lines := app.Cart.Lines()
		view = storefront.CartView{
			Scope:         app.Cart.Identity().String(),
			Unknown:       lines,
			Count:         len(lines),
			TotalQuantity: lines.TotalQuantity(),
		}
		out.CatalogError = err.Error()
	}
	if view.Lines == nil {
		view.Lines = []domain.AnnotatedLine{}
	}
	out.CartView = view

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Cart (%s)", view.Scope))+" "+
		mutedStyle.Render(fmt.Sprintf("%d lines, %d items", view.Count, view.TotalQuantity)))
	if merged != nil {
		if *merged {
			fmt.Fprintln(w, "guest cart merged")
		} else {
			fmt.Fprintln(w, mutedStyle.Render("nothing to merge"))
		}
	}
	if view.Count == 0 {
		fmt.Fprintln(w, mutedStyle.Render("empty"))
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PRODUCT", "NAME", "QTY", "PRICE", "SUBTOTAL")
	for _, l := range view.Lines {
		t.Row(l.ProductID, l.Product.Name, strconv.Itoa(l.Quantity), money(l.Product.Price), money(l.Subtotal))
	}
	for _, l := range view.Unknown {
		t.Row(l.ProductID, "?", strconv.Itoa(l.Quantity), "", "")
	}
	fmt.Fprintln(w, t.Render())

	if out.CatalogError != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("catalog unavailable, prices omitted: "+out.CatalogError))
		return nil
	}
	fmt.Fprintln(w, titleStyle.Render("Total "+money(view.Total)))
	return nil
}

// printSync waits for the write scheduled by a mutation and reports where
// it landed.
func printSync(ctx context.Context, cmd *cobra.Command, opts *RootOptions, lines domain.Cart, h *service.SyncHandle) error {
	res, err := h.Wait(ctx)
	if err != nil {
		return err
	}

	out := syncOutput{Scope: res.Identity.String(), Lines: lines, RemoteSynced: res.RemoteSynced}
	if out.Lines == nil {
		out.Lines = domain.Cart{}
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, out)
	}

	for _, l := range out.Lines {
		fmt.Fprintf(w, "%s x%d\n", l.ProductID, l.Quantity)
	}
	switch {
	case res.Identity.IsGuest():
		fmt.Fprintln(w, mutedStyle.Render("saved locally (guest)"))
	case res.RemoteSynced:
		fmt.Fprintln(w, mutedStyle.Render("saved locally and synced"))
	default:
		fmt.Fprintln(w, warnStyle.Render("saved locally, server sync failed"))
	}
	return nil
}

func printWhoami(cmd *cobra.Command, opts *RootOptions, app *storefront.App) error {
	out := whoamiOutput{Scope: app.Session.CurrentIdentity().String()}
	if su, ok := app.Session.CurrentUser(); ok {
		u := su.User
		out.User = &u
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, out)
	}
	if out.User == nil {
		fmt.Fprintln(w, "guest")
		return nil
	}
	fmt.Fprintf(w, "%s <%s> %s\n", out.User.Name, out.User.Email, mutedStyle.Render(out.Scope))
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
