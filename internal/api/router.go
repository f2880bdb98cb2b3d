package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vestuario/commerce-api/docs"
	"github.com/vestuario/commerce-api/internal/api/handler"
	"github.com/vestuario/commerce-api/internal/api/middleware"
	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/service"
	"github.com/vestuario/commerce-api/internal/infrastructure/config"
	mongodb "github.com/vestuario/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/vestuario/commerce-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("commerce"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	requestRepo := mongodb.NewRoleRequestRepository(db)
	productRepo := mongodb.NewProductRepository(db)

	userService := service.NewUserService(
		userRepo,
		service.TokenConfig{
			Secret:   cfg.JWT.Secret,
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			TTL:      cfg.JWT.TTL,
		},
		service.LockoutConfig{
			MaxAttempts:  cfg.Lockout.MaxAttempts,
			LockDuration: cfg.Lockout.LockDuration,
		},
		cfg.BcryptCost,
		log,
	)
	roleService := service.NewRoleRequestService(requestRepo, userRepo, log)
	productService := service.NewProductService(productRepo, log)

	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	productHandler := handler.NewProductHandler(productService)

	auth := middleware.Auth(cfg.JWT.Secret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	limiter := redisdb.NewLimiter(rdb, cfg.RateLimit.Window)
	generalLimit := middleware.RateLimit(limiter, "general", cfg.RateLimit.GeneralLimit, log)
	authLimit := middleware.RateLimit(limiter, "auth", cfg.RateLimit.AuthLimit, log)
	writeLimit := middleware.RateLimit(limiter, "write", cfg.RateLimit.WriteLimit, log)

	// --- User routes ---
	users := e.Group("/api/users")
	users.POST("/register", userHandler.Register, generalLimit)
	users.POST("/login", userHandler.Login, authLimit)
	users.GET("/verify-user", userHandler.Verify, auth)
	users.PUT("/update", userHandler.Update, auth, generalLimit)
	users.POST("/request-role", roleHandler.Submit, auth, generalLimit)
	users.GET("/role-requests", roleHandler.ListPending, auth, adminOnly)
	users.PUT("/role-requests/:id", roleHandler.Decide, auth, adminOnly, generalLimit)
	users.GET("/stats", userHandler.Stats, auth, adminOnly)

	// --- Product routes ---
	products := e.Group("/api/products")
	products.GET("", productHandler.List, generalLimit)
	products.GET("/search", productHandler.Search, generalLimit)
	products.GET("/category/:category", productHandler.ByCategory, generalLimit)
	products.GET("/low-stock", productHandler.LowStock, auth, adminOnly)
	products.GET("/admin/stats", productHandler.Stats, auth, adminOnly)
	products.GET("/:id", productHandler.Get, generalLimit)
	products.POST("", productHandler.Create, auth, adminOnly, writeLimit)
	products.PUT("/:id", productHandler.Update, auth, adminOnly, writeLimit)
	products.DELETE("/:id", productHandler.Delete, auth, adminOnly, writeLimit)

	// --- Observability + docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
