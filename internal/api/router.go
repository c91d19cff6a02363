package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tawargy/sqliteserver/docs"
	"github.com/tawargy/sqliteserver/internal/api/handler"
	"github.com/tawargy/sqliteserver/internal/api/middleware"
	"github.com/tawargy/sqliteserver/internal/core/ports"
	"github.com/tawargy/sqliteserver/internal/pkg/metrics"
)

const maxBodySize = "1M"

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Registration ports.RegistrationService
	Resources    ports.ResourceService

	// Readiness probes. Cache is optional.
	DB    handler.Pinger
	Cache handler.Pinger
	Pool  handler.PoolStatter

	// Registry backs /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	// --- Pipeline routes ---
	userHandler := handler.NewUserHandler(deps.Registration)
	resourceHandler := handler.NewResourceHandler(deps.Resources)

	e.POST("/users", userHandler.Create)
	e.GET("/resource/:id", resourceHandler.Get)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Cache, deps.Pool, deps.Log)

	e.GET("/health", healthHandler.Liveness)           // liveness:  is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
