package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/delivery/http/handler"
	"github.com/floodwatch-service/internal/delivery/http/middleware"
	apperrors "github.com/floodwatch-service/internal/pkg/errors"
)

// Server is the fiber HTTP server hosting the flood risk API.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	riskHandler       *handler.RiskHandler
	routeHandler      *handler.RouteHandler
	evacuationHandler *handler.EvacuationHandler
	riskAreaHandler   *handler.RiskAreaHandler
	backtestHandler   *handler.BacktestHandler

	metricsRegistry prometheus.Gatherer
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	riskHandler *handler.RiskHandler,
	routeHandler *handler.RouteHandler,
	evacuationHandler *handler.EvacuationHandler,
	riskAreaHandler *handler.RiskAreaHandler,
	backtestHandler *handler.BacktestHandler,
	metricsRegistry prometheus.Gatherer,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Floodwatch Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:               app,
		config:            cfg,
		logger:            logger,
		riskHandler:       riskHandler,
		routeHandler:      routeHandler,
		evacuationHandler: evacuationHandler,
		riskAreaHandler:   riskAreaHandler,
		backtestHandler:   backtestHandler,
		metricsRegistry:   metricsRegistry,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metricsRegistry != nil {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{}))
		s.app.Get("/metrics", func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"area":   s.config.Area.Slug,
			"time":   time.Now().UTC(),
		})
	})

	api.Get("/flood-risk", s.riskHandler.GetFloodRisk)
	api.Get("/upstream-status", s.riskHandler.GetUpstreamStatus)
	api.Get("/risk-area", s.riskAreaHandler.GetRiskArea)

	api.Get("/safe-route", s.routeHandler.GetSafeRoute)
	api.Get("/evacuation-centers/nearest", s.evacuationHandler.GetNearestCenters)

	api.Post("/backtests", s.backtestHandler.CreateBacktest)
	api.Get("/backtests/:id", s.backtestHandler.GetBacktest)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return c.Status(appErr.StatusCode).JSON(fiber.Map{"error": appErr})
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
