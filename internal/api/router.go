package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cvmotors/dealership-system/internal/api/handler"
	"github.com/cvmotors/dealership-system/internal/api/middleware"
	"github.com/cvmotors/dealership-system/internal/core/ports"
	"github.com/cvmotors/dealership-system/internal/core/service"
	mongodb "github.com/cvmotors/dealership-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cvmotors/dealership-system/internal/infrastructure/db/redis"
)

// Options carries the knobs the router needs beyond its store handles.
type Options struct {
	JWTSecret      string
	SessionTTL     time.Duration
	TokenTTL       time.Duration
	SessionSliding bool
	BcryptCost     int
	Secure         bool
	Audit          ports.AuditRecorder
	Logger         zerolog.Logger
}

// NewRouter builds the Echo instance with every route registered and the
// identity resolver installed ahead of all of them.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("dealership"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	inventoryRepo := mongodb.NewInventoryRepository(db)
	favoriteRepo := mongodb.NewFavoriteRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)
	flashStore := redisdb.NewFlashStore(rdb)

	accountService := service.NewAccountService(accountRepo, opts.Audit, opts.BcryptCost, opts.Logger)
	issuer := service.NewIssuer(sessionStore, opts.JWTSecret, opts.SessionTTL, opts.TokenTTL, opts.SessionSliding, opts.Logger)
	inventoryService := service.NewInventoryService(inventoryRepo, opts.Logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, inventoryRepo)

	resolver := middleware.NewResolver(accountService, issuer, flashStore, opts.Secure, opts.Logger)
	e.Use(resolver.Middleware())

	accountHandler := handler.NewAccountHandler(accountService, issuer, opts.Audit, opts.Secure)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	// --- Public routes ---
	e.GET("/", inventoryHandler.Home)
	e.GET("/account/login", accountHandler.LoginView)
	e.POST("/account/login", accountHandler.Login)
	e.GET("/account/register", accountHandler.RegisterView)
	e.POST("/account/register", accountHandler.Register)
	e.POST("/account/logout", accountHandler.Logout)

	e.GET("/inv/classifications", inventoryHandler.Classifications)
	e.GET("/inv/type/:classificationId", inventoryHandler.ByClassification)
	e.GET("/inv/detail/:id", inventoryHandler.Detail)

	// --- Authenticated routes (any role) ---
	login := middleware.RequireLogin()
	e.GET("/account/", accountHandler.Management, login)
	e.GET("/account/update", accountHandler.UpdateView, login)
	e.POST("/account/update", accountHandler.UpdateProfile, login)
	e.POST("/account/password", accountHandler.UpdatePassword, login)
	e.POST("/account/logout-all", accountHandler.LogoutAll, login)

	e.GET("/favorites", favoriteHandler.List, login)
	e.POST("/favorites", favoriteHandler.Add, login)
	e.DELETE("/favorites/:vehicleID", favoriteHandler.Remove, login)

	// --- Staff routes ---
	staff := middleware.RequireStaff()
	e.GET("/inv/management", inventoryHandler.Management, staff)
	e.POST("/inv/classifications", inventoryHandler.AddClassification, staff)
	e.POST("/inv/vehicles", inventoryHandler.AddVehicle, staff)
	e.PUT("/inv/vehicles/:id", inventoryHandler.UpdateVehicle, staff)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
