package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apisec/secure-api/internal/api/handler"
	"github.com/apisec/secure-api/internal/api/middleware"
	"github.com/apisec/secure-api/internal/core/domain"
	"github.com/apisec/secure-api/internal/core/ports"
	"github.com/apisec/secure-api/internal/core/service"
	"github.com/apisec/secure-api/internal/infrastructure/config"
	mongodb "github.com/apisec/secure-api/internal/infrastructure/db/mongo"
	redisdb "github.com/apisec/secure-api/internal/infrastructure/db/redis"
	"github.com/apisec/secure-api/internal/pkg/token"
)

// newEcho builds the Echo instance with the validator, the central error
// handler and the global middleware every route shares.
func newEcho(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	return e
}

// registerRoutes wires the route table against the given collaborators.
// Per-route middleware runs in declaration order: the rate limiter is always
// first, then the access gate, then the scope/role predicate.
func registerRoutes(e *echo.Echo, cfg *config.Config, users ports.UserRepository, products ports.ProductRepository, counter middleware.Counter, log zerolog.Logger) {
	codec := token.NewCodec(cfg.JWT.Secret)

	authHandler := handler.NewAuthHandler(service.NewAuthService(users, codec, cfg.JWT.TTL, log))
	userHandler := handler.NewUserHandler(service.NewUserService(users, log))
	productHandler := handler.NewProductHandler(service.NewProductService(products, log))
	healthHandler := handler.NewHealthHandler()

	gate := middleware.Gate(codec, users)
	rl := cfg.RateLimit
	limit := func(route string, quota int) echo.MiddlewareFunc {
		return middleware.RateLimit(counter, route, quota, rl.Window)
	}

	// --- Public routes ---
	e.GET("/", healthHandler.Root, limit("root", rl.Root))
	e.GET("/health", healthHandler.Liveness)

	e.POST("/auth/register", authHandler.Register, limit("auth_register", rl.Register))
	e.POST("/auth/login", authHandler.Login, limit("auth_login", rl.Login))

	// --- Authenticated routes ---
	e.GET("/me", userHandler.Me, limit("me", rl.Me), gate)

	e.GET("/products", productHandler.List,
		limit("products_list", rl.ProductsRead), gate, middleware.RequireScope(domain.ScopeRead))
	e.GET("/products/:id", productHandler.Get,
		limit("products_get", rl.ProductsRead), gate, middleware.RequireScope(domain.ScopeRead))
	e.POST("/products", productHandler.Create,
		limit("products_create", rl.ProductsWrite), gate, middleware.RequireScope(domain.ScopeWrite))
	e.PUT("/products/:id", productHandler.Update,
		limit("products_update", rl.ProductsWrite), gate, middleware.RequireScope(domain.ScopeWrite))
	e.DELETE("/products/:id", productHandler.Delete,
		limit("products_delete", rl.ProductsDelete), gate, middleware.RequireScope(domain.ScopeDelete))

	// --- Admin routes ---
	e.GET("/admin/users", userHandler.List,
		limit("admin_users", rl.AdminUsers), gate, middleware.RequireRole(domain.RoleAdmin))
	e.DELETE("/admin/users/:id", userHandler.Delete,
		limit("admin_users_delete", rl.AdminDelete), gate, middleware.RequireRole(domain.RoleAdmin))
	e.POST("/admin/elevate/:id", userHandler.Elevate,
		limit("admin_elevate", rl.AdminElevate), gate, middleware.RequireScope(domain.ScopeAdmin))
}

// NewRouter builds and returns the Echo instance with all routes registered
// against the real MongoDB and Redis collaborators.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := newEcho(log)

	e.Use(echoprometheus.NewMiddleware("secure_api"))
	e.GET("/metrics", echoprometheus.NewHandler())

	registerRoutes(e, cfg,
		mongodb.NewUserRepository(db),
		mongodb.NewProductRepository(db),
		redisdb.NewWindowCounter(rdb),
		log)

	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
