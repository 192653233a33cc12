package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/floodwatch-service/internal/config"
	"github.com/floodwatch-service/internal/pkg/logger"
	"github.com/floodwatch-service/internal/repository/cache"
	"github.com/floodwatch-service/internal/repository/geodata"
	"github.com/floodwatch-service/internal/repository/postgres"
	redisrepo "github.com/floodwatch-service/internal/repository/redis"
	"github.com/floodwatch-service/internal/usecase"
	"github.com/floodwatch-service/internal/worker"
	"github.com/floodwatch-service/internal/worker/backtest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting backtest worker",
		zap.String("stream", cfg.Worker.Stream),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	backtestRepo := postgres.NewBacktestRepository(db)
	streamRepo := redisrepo.NewStreamRepository(redisClient, log)
	riverGraphRepo := geodata.NewRiverGraphRepository(cfg.Geodata.RiverGraphPath, log)
	roadGraphRepo := geodata.NewRoadGraphRepository(cfg.Geodata.RoadGraphPath, log)

	backtestUC := usecase.NewBacktestUsecase(
		cfg.Area, cfg.Worker.Stream, backtestRepo, streamRepo,
		riverGraphRepo, roadGraphRepo, nil, log)

	executorWorker := backtest.NewExecutorWorker(
		streamRepo,
		backtestUC,
		cfg.Worker.Stream,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	manager := worker.NewManager(log)
	manager.Register(executorWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")
	cancel()

	if err := manager.Stop(); err != nil {
		log.Error("Worker shutdown failed", zap.Error(err))
	}

	log.Info("Backtest worker stopped")
}
