package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetms/fleet-auth/internal/api/handler"
	"github.com/fleetms/fleet-auth/internal/api/middleware"
	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
	"github.com/fleetms/fleet-auth/internal/infrastructure/http/handlers"
	"github.com/fleetms/fleet-auth/pkg/logger"
)

// Deps carries the wired collaborators the router needs.
type Deps struct {
	AuthService ports.AuthService
	Accounts    ports.AccountRepository
	Codec       ports.TokenCodec
	Cache       ports.PrincipalCache
	Mongo       *mongo.Database
	Redis       *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes
// registered. Required roles are declared right here at registration,
// next to the route they gate.
func NewRouter(d Deps) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))
	e.Use(middleware.Identity(d.Codec, d.Accounts, d.Cache, log))

	authHandler := handler.NewAuthHandler(d.AuthService)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	testHandler := handler.NewTestHandler()

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Role-gated resources ---
	e.GET("/api/test/all", testHandler.All)
	e.GET("/api/test/user", testHandler.User, middleware.RequireRoles(domain.RoleUser))
	e.GET("/api/test/admin", testHandler.Admin, middleware.RequireRoles(domain.RoleAdmin))
	e.GET("/api/account/me", accountHandler.Me, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
