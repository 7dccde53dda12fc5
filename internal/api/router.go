package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dynamicreport/report-api/internal/api/handler"
	"github.com/dynamicreport/report-api/internal/api/middleware"
	"github.com/dynamicreport/report-api/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Redis may be nil.
type Deps struct {
	AppName string
	Logger  zerolog.Logger

	AuthService   ports.AuthService
	ReportService ports.ReportService
	Codec         ports.TokenCodec
	Roles         ports.RoleResolver

	DB    handler.Pinger
	Redis *redis.Client

	// Registerer and Gatherer back the HTTP metrics and /metrics. They default
	// to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.AppName)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID(d.Logger))
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	reportHandler := handler.NewReportHandler(d.ReportService)
	authMiddleware := middleware.Authenticate(d.Codec, d.Roles)

	// --- Auth routes ---
	v1 := e.Group("/v1")
	v1.POST("/auth/login", authHandler.Login)

	// --- Report routes (token + role required) ---
	v1.POST("/reports", reportHandler.GetReports, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness) // database and redis
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	return e
}
