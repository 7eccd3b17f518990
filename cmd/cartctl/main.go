package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopfront/cart-sync/internal/cli"
	"github.com/shopfront/cart-sync/internal/infrastructure/config"
	"github.com/shopfront/cart-sync/internal/storefront"
	"github.com/shopfront/cart-sync/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(newApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, opts *cli.RootOptions) (*storefront.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{
		Level:   level,
		Pretty:  true,
		Output:  os.Stderr,
		Service: "cartctl",
	})

	return storefront.New(ctx, cfg, log)
}
