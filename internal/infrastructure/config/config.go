package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is shared by cartd and cartctl. Each binary reads the sections it
// needs and ignores the rest.
type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Gateway    GatewayConfig
	LocalStore LocalStoreConfig
	Merge      MergeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cart_sync"`
}

// RedisConfig is optional. An empty Addr disables every Redis-backed feature.
type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=cartsync"`
}

type GatewayConfig struct {
	BaseURL string        `env:"CART_API_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"CART_API_TIMEOUT, default=5s"`
}

// LocalStoreConfig selects the client-side persistence driver:
// memory, sqlite or redis.
type LocalStoreConfig struct {
	Driver string `env:"LOCAL_STORE_DRIVER, default=sqlite"`
	Path   string `env:"LOCAL_STORE_PATH,   default=cart-sync.db"`
}

// MergeConfig tunes the replayed-merge guard. Zero disables it.
type MergeConfig struct {
	GuardTTL time.Duration `env:"MERGE_GUARD_TTL, default=24h"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom reads configuration from an explicit lookuper instead of the
// process environment.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
