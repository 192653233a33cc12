package main

// @title Floodwatch Service API
// @version 1.0.0
// @description Flood risk assessment service for Negros Island. Scores point flood risk from rainfall forecasts, upstream river signal, elevation and historical flood zones; computes flood-aware road routes; finds evacuation centers; and runs historical backtests over the area grid.

// @contact.name API Support
// @contact.email support@floodwatch-service.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/floodwatch-service/docs/swagger"
	"github.com/floodwatch-service/internal/config"
	httpDelivery "github.com/floodwatch-service/internal/delivery/http"
	"github.com/floodwatch-service/internal/delivery/http/handler"
	"github.com/floodwatch-service/internal/infrastructure/opentopo"
	"github.com/floodwatch-service/internal/infrastructure/openweather"
	"github.com/floodwatch-service/internal/observability"
	"github.com/floodwatch-service/internal/pkg/logger"
	"github.com/floodwatch-service/internal/repository/cache"
	"github.com/floodwatch-service/internal/repository/geodata"
	"github.com/floodwatch-service/internal/repository/postgres"
	redisrepo "github.com/floodwatch-service/internal/repository/redis"
	"github.com/floodwatch-service/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Floodwatch Service",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("area", cfg.Area.Slug))

	location, err := time.LoadLocation(cfg.Weather.Timezone)
	if err != nil {
		log.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", cfg.Weather.Timezone))
		location = time.UTC
	}

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	cacheRepo := cache.NewRedisCache(redisClient, log)
	log.Info("Redis connected")

	riverGraphRepo := geodata.NewRiverGraphRepository(cfg.Geodata.RiverGraphPath, log)
	roadGraphRepo := geodata.NewRoadGraphRepository(cfg.Geodata.RoadGraphPath, log)
	floodZoneRepo := geodata.NewFloodZoneRepository(cfg.Geodata.FloodZonesPath, log)
	riverGeometryRepo := geodata.NewRiverGeometryRepository(
		cfg.Geodata.RiverLinesPath, cfg.Geodata.RiverPointsPath, log)
	elevationGridRepo := geodata.NewElevationGridRepository(cfg.Geodata.ElevationGridPath, log)

	evacuationRepo := postgres.NewEvacuationRepository(db)
	backtestRepo := postgres.NewBacktestRepository(db)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	weatherProvider := openweather.NewClient(&cfg.Weather, log)
	elevationProvider := opentopo.NewClient(&cfg.Elevation, log)

	weatherUC := usecase.NewWeatherUsecase(weatherProvider, cacheRepo, cfg.Cache.WeatherTTL, metrics, log)
	terrainUC := usecase.NewTerrainUsecase(
		elevationGridRepo, elevationProvider, riverGeometryRepo,
		cacheRepo, cfg.Cache.ElevationTTL, metrics, log)
	upstreamUC := usecase.NewUpstreamUsecase(riverGraphRepo, weatherUC, log)
	riskUC := usecase.NewRiskUsecase(weatherUC, terrainUC, upstreamUC, floodZoneRepo, metrics, log)
	routingUC := usecase.NewRoutingUsecase(roadGraphRepo, weatherUC, terrainUC, upstreamUC, metrics, log)
	evacuationUC := usecase.NewEvacuationUsecase(evacuationRepo, log)
	riskAreaUC := usecase.NewRiskAreaUsecase(
		cfg.Area, riskUC, weatherUC, terrainUC, upstreamUC,
		riverGeometryRepo, roadGraphRepo, cacheRepo, cfg.Cache.RiskAreaTTL, log)

	streamRepo := redisrepo.NewStreamRepository(redisClient, log)
	backtestUC := usecase.NewBacktestUsecase(
		cfg.Area, cfg.Worker.Stream, backtestRepo, streamRepo,
		riverGraphRepo, roadGraphRepo, metrics, log)

	riskHandler := handler.NewRiskHandler(riskUC, upstreamUC, location, log)
	routeHandler := handler.NewRouteHandler(routingUC, location, log)
	evacuationHandler := handler.NewEvacuationHandler(evacuationUC, log)
	riskAreaHandler := handler.NewRiskAreaHandler(riskAreaUC, location, log)
	backtestHandler := handler.NewBacktestHandler(backtestUC, log)

	server := httpDelivery.NewServer(cfg, log,
		riskHandler, routeHandler, evacuationHandler, riskAreaHandler, backtestHandler,
		registry)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Floodwatch Service stopped")
}
