package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/shopfront/cart-sync/docs"
	"github.com/shopfront/cart-sync/internal/api/handler"
	"github.com/shopfront/cart-sync/internal/api/middleware"
	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
	"github.com/shopfront/cart-sync/internal/core/service"
	mongostore "github.com/shopfront/cart-sync/internal/infrastructure/db/mongo"
	redisstore "github.com/shopfront/cart-sync/internal/infrastructure/db/redis"
	"github.com/shopfront/cart-sync/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Auth      ports.AuthService
	Carts     ports.CartRecordService
	Catalog   ports.CatalogService
	Orders    ports.OrderService
	Checkers  []handlers.Checker
	JWTSecret string

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the domain counters also live.
	Registry *prometheus.Registry
}

// BuildDependencies wires the Mongo-backed services. rdb may be nil.
func BuildDependencies(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) Dependencies {
	checkers := []handlers.Checker{mongostore.NewPinger(db)}
	if rdb != nil {
		checkers = append(checkers, redisstore.NewPinger(rdb))
	}

	products := mongostore.NewProductRepository(db)

	return Dependencies{
		Auth:      service.NewAuthService(mongostore.NewUserRepository(db), jwtSecret, 24*time.Hour),
		Carts:     service.NewCartRecordService(mongostore.NewCartRepository(db), log.With().Str("component", "carts").Logger()),
		Catalog:   service.NewCatalogService(products, log.With().Str("component", "catalog").Logger()),
		Orders:    service.NewOrderService(mongostore.NewOrderRepository(db), products, log.With().Str("component", "orders").Logger()),
		Checkers:  checkers,
		JWTSecret: jwtSecret,
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "cartsync",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Checkers...).Readiness)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog (public reads) ---
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	e.GET("/products", catalogHandler.List)
	e.GET("/products/:id", catalogHandler.Get)

	// --- Cart collection ---
	cartHandler := handler.NewCartHandler(deps.Carts)
	carts := e.Group("/cart",
		middleware.Auth(deps.JWTSecret),
		middleware.RBAC(domain.RoleAdmin, domain.RoleUser),
	)
	carts.GET("", cartHandler.List)
	carts.POST("", cartHandler.Create)
	carts.PUT("/:id", cartHandler.Replace)
	carts.DELETE("/:id", cartHandler.Delete)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(deps.Orders)
	orders := e.Group("/orders",
		middleware.Auth(deps.JWTSecret),
		middleware.RBAC(domain.RoleAdmin, domain.RoleUser),
	)
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)

	return e
}
