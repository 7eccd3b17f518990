package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/cart-sync/internal/api"
	"github.com/shopfront/cart-sync/internal/infrastructure/config"
	mongostore "github.com/shopfront/cart-sync/internal/infrastructure/db/mongo"
	redisstore "github.com/shopfront/cart-sync/internal/infrastructure/db/redis"
	"github.com/shopfront/cart-sync/pkg/logger"
)

// @title                       cart-sync API
// @version                     1.0
// @description                 Remote cart collection, catalog and auth endpoints used by the storefront cart sync.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "cartd",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongostore.EnsureIndexes(ctx,
		mongostore.NewCartRepository(db),
		mongostore.NewProductRepository(db),
		mongostore.NewUserRepository(db),
		mongostore.NewOrderRepository(db),
	); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, readiness will not probe it")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	e := api.NewRouter(api.BuildDependencies(db, rdb, cfg.JWTSecret, log), log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("cartd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("cartd stopped")
}
