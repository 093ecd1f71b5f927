package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/routes/directory"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/routes/items"
	"github.com/Ramsey-B/clover/pkg/routes/match"
	"github.com/Ramsey-B/clover/pkg/routes/report"
	"github.com/Ramsey-B/clover/pkg/routes/trust"
)

// Server wraps the echo instance and its listener configuration
type Server struct {
	echo    *echo.Echo
	checker *health.Checker
	logger  ectologger.Logger
	port    int
}

// New assembles the HTTP server. The injector middlewares run before the
// route handlers and are expected to seed the request context with the
// dependency container.
func New(cfg *config.Config, logger ectologger.Logger, checker *health.Checker, injectors ...echo.MiddlewareFunc) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomiddleware.Recover())
	for _, injector := range injectors {
		e.Use(injector)
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.HTTPErrorHandler = middleware.Error(logger)

	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	itemGroup := api.Group("/items")
	items.Register(itemGroup)
	match.Register(itemGroup)
	report.Register(api.Group("/reports"))
	directory.Register(api.Group("/directory"))
	trust.Register(api.Group("/trust-scores"))

	return &Server{
		echo:    e,
		checker: checker,
		logger:  logger,
		port:    cfg.Port,
	}
}

// Echo exposes the underlying echo instance for tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins serving and marks the service ready. It blocks until the
// listener stops.
func (s *Server) Start() error {
	s.checker.SetReady(true)
	s.logger.WithFields(map[string]any{"port": s.port}).Info("Starting HTTP server")

	err := s.echo.Start(fmt.Sprintf(":%d", s.port))
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	s.checker.SetReady(false)
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
