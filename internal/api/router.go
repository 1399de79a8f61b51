package api

import (
	"database/sql"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mmtopup/storefront/docs"
	"github.com/mmtopup/storefront/internal/api/handler"
	"github.com/mmtopup/storefront/internal/api/middleware"
	"github.com/mmtopup/storefront/internal/core/gate"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const healthPath = "/api/health"

// Dependencies are the services and connections the HTTP layer is built on.
// DB, Mongo and Redis are nil when not configured.
type Dependencies struct {
	Logger      zerolog.Logger
	StoreRouter *gate.Router
	DB          *sql.DB
	Mongo       *mongo.Database
	Redis       *redis.Client

	Tokens   ports.TokenVerifier
	Users    ports.UserStore
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Orders   ports.OrderService
	Admin    ports.AdminService
	Settings ports.SettingsService
}

// Options tune the HTTP surface.
type Options struct {
	FrontendURL        string
	RateLimitPerMinute int
	RecheckPrincipal   bool
	Development        bool
	MetricsEnabled     bool
	SwaggerEnabled     bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, opts.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     allowedOrigins(opts.FrontendURL),
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, handler.IdempotencyHeader,
		},
	}))
	limiter := newFailureLimiter(opts.RateLimitPerMinute, 3*time.Minute)
	e.Use(limiter.middleware(func(c echo.Context) bool {
		return c.Request().URL.Path == healthPath
	}))
	e.Use(echomiddleware.BodyLimit("10M"))

	if opts.MetricsEnabled {
		e.Use(echoprometheus.NewMiddleware("storefront"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	if opts.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Auth middleware ---
	var authOpts []middleware.AuthOption
	if opts.RecheckPrincipal {
		authOpts = append(authOpts, middleware.WithPrincipalRecheck(deps.Users))
	}
	authenticate := middleware.Authenticate(deps.Tokens, authOpts...)
	requireAdmin := middleware.RequireAdmin()

	api := e.Group("/api")

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(deps.StoreRouter)
	ready := handler.NewReadinessHandler(deps.StoreRouter, deps.DB, deps.Mongo, deps.Redis)
	api.GET("/health", health.Liveness)
	api.GET("/health/ready", ready.Readiness)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth, !opts.Development)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authenticate)

	// --- Products ---
	productHandler := handler.NewProductHandler(deps.Catalog)
	products := api.Group("/products", authenticate)
	products.GET("", productHandler.Catalog)
	products.GET("/all", productHandler.List, requireAdmin)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, requireAdmin)
	products.PUT("/:id", productHandler.Update, requireAdmin)
	products.DELETE("/:id", productHandler.Delete, requireAdmin)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(deps.Orders)
	orders := api.Group("/orders", authenticate)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.ListMine)
	orders.GET("/:id", orderHandler.Get)

	// --- Settings ---
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	api.GET("/settings", settingsHandler.Get)

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Settings)
	admin := api.Group("/admin", authenticate, requireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/ban", adminHandler.SetBanned)
	admin.POST("/users/:id/credits", adminHandler.AdjustCredits)
	admin.GET("/orders", orderHandler.List)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	admin.PUT("/settings", adminHandler.UpdateSettings)
	admin.PUT("/payment-methods/:method", adminHandler.SetPaymentMethod)

	return e
}

func allowedOrigins(frontendURL string) []string {
	origins := []string{"http://localhost:5000"}
	if frontendURL != "" && frontendURL != origins[0] {
		origins = append(origins, frontendURL)
	}
	return origins
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
