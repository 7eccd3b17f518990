// Package storefront assembles the client side of cart sync: the session,
// the cart engine, the local store and the HTTP gateways to cartd.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
	"github.com/shopfront/cart-sync/internal/core/service"
	"github.com/shopfront/cart-sync/internal/infrastructure/config"
	redisstore "github.com/shopfront/cart-sync/internal/infrastructure/db/redis"
	"github.com/shopfront/cart-sync/internal/infrastructure/gateway"
	"github.com/shopfront/cart-sync/internal/infrastructure/localstore"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

var ErrUnknownDriver = errors.New("unknown local store driver")

// ErrSignInRequired is returned by operations that need a signed-in user.
var ErrSignInRequired = errors.New("sign in required")

// App is the client context object. Build one per process with New and
// release it with Close.
type App struct {
	Session *service.Session
	Cart    *service.CartEngine

	catalog *gateway.CatalogGateway
	orders  ports.OrderGateway
	closers []func() error
	log     zerolog.Logger
}

type options struct {
	store      ports.LocalStore
	httpClient *http.Client
	redis      *goredis.Client
}

type Option func(*options)

// WithLocalStore bypasses the configured driver.
func WithLocalStore(store ports.LocalStore) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient replaces the gateway's HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRedis supplies an already connected client instead of dialing
// cfg.Redis.Addr. The caller keeps ownership of it.
func WithRedis(client *goredis.Client) Option {
	return func(o *options) { o.redis = client }
}

// New wires the client. The engine is subscribed to session identity
// changes before anything else can sign in.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{log: log}

	rdb := o.redis
	if rdb == nil && cfg.Redis.Addr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		rdb = client
		app.closers = append(app.closers, client.Close)
	}

	store := o.store
	if store == nil {
		s, closer, err := openStore(cfg, rdb)
		if err != nil {
			app.closeAll()
			return nil, err
		}
		store = s
		if closer != nil {
			app.closers = append(app.closers, closer)
		}
	}

	var session *service.Session
	client := gateway.NewClient(gateway.Options{
		BaseURL:    cfg.Gateway.BaseURL,
		Timeout:    cfg.Gateway.Timeout,
		HTTPClient: o.httpClient,
		Token: func() string {
			if session == nil {
				return ""
			}
			return session.Token()
		},
	}, log.With().Str("component", "gateway").Logger())

	var engineOpts []service.EngineOption
	if rdb != nil && cfg.Merge.GuardTTL > 0 {
		engineOpts = append(engineOpts, service.WithMergeGuard(
			redisstore.NewMergeGuard(rdb, cfg.Redis.Prefix, cfg.Merge.GuardTTL),
		))
	}

	app.Cart = service.NewCartEngine(store, gateway.NewCartGateway(client),
		log.With().Str("component", "cart").Logger(), engineOpts...)
	session = service.NewSession(store, gateway.NewAuthGateway(client),
		log.With().Str("component", "session").Logger())
	session.Subscribe(app.Cart.HandleIdentityChange)
	app.Session = session
	app.catalog = gateway.NewCatalogGateway(client)
	app.orders = gateway.NewOrderGateway(client)

	return app, nil
}

func openStore(cfg *config.Config, rdb *goredis.Client) (ports.LocalStore, func() error, error) {
	switch cfg.LocalStore.Driver {
	case DriverMemory:
		return localstore.NewMemoryStore(), nil, nil
	case DriverSQLite, "":
		s, err := localstore.OpenSQLite(cfg.LocalStore.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("redis local store: REDIS_ADDR is not set")
		}
		return redisstore.NewLocalStore(rdb, cfg.Redis.Prefix), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.LocalStore.Driver)
	}
}

// Start restores the persisted session and loads the matching cart.
func (a *App) Start(ctx context.Context) domain.Identity {
	identity := a.Session.Restore(ctx)
	a.Cart.Initialize(ctx, identity)
	return identity
}

// CartView is the cart joined with the catalog.
type CartView struct {
	Scope         string                 `json:"scope"`
	Lines         []domain.AnnotatedLine `json:"lines"`
	Unknown       domain.Cart            `json:"unknown,omitempty"`
	Count         int                    `json:"count"`
	TotalQuantity int                    `json:"totalQuantity"`
	Total         float64                `json:"total"`
}

// View prices the current cart. Lines whose product is missing from the
// catalog are reported in Unknown and excluded from Total.
func (a *App) View(ctx context.Context) (CartView, error) {
	lines := a.Cart.Lines()
	products, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return CartView{}, err
	}

	annotated := domain.Annotate(lines, products)
	known := make(map[string]struct{}, len(annotated))
	for _, l := range annotated {
		known[l.ProductID] = struct{}{}
	}
	var unknown domain.Cart
	for _, l := range lines {
		if _, ok := known[l.ProductID]; !ok {
			unknown = append(unknown, l)
		}
	}

	return CartView{
		Scope:         a.Cart.Identity().String(),
		Lines:         annotated,
		Unknown:       unknown,
		Count:         len(lines),
		TotalQuantity: lines.TotalQuantity(),
		Total:         domain.CartTotal(lines, products),
	}, nil
}

// Checkout places an order for the signed-in user's cart and clears the
// cart once the backend has accepted it. Pending syncs are flushed first so
// the order and the remote cart agree. A failed order leaves the cart as is.
func (a *App) Checkout(ctx context.Context, shipping domain.ShippingInfo) (*domain.Order, error) {
	user, ok := a.Session.CurrentUser()
	if !ok {
		return nil, ErrSignInRequired
	}
	if err := a.Cart.Flush(ctx); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	lines := a.Cart.Lines()
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	order, err := a.orders.Place(ctx, ports.PlaceOrderInput{UserID: user.ID, Items: lines, Shipping: shipping})
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	a.Cart.Clear(ctx)

	a.log.Info().
		Str("order_id", order.ID).
		Str("user_id", user.ID).
		Float64("total", order.Total).
		Msg("order placed")
	return order, nil
}

// Orders lists the signed-in user's orders, newest first.
func (a *App) Orders(ctx context.Context) ([]domain.Order, error) {
	user, ok := a.Session.CurrentUser()
	if !ok {
		return nil, ErrSignInRequired
	}
	return a.orders.ListByUser(ctx, user.ID)
}

// Close waits for pending cart syncs, then releases stores and connections.
func (a *App) Close(ctx context.Context) error {
	err := a.Cart.Flush(ctx)
	if cerr := a.closeAll(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
