package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/handlers"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/middleware"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/infra/database/postgres"
	redisinfra "github.com/HwanGonJang/stock-streaming-data-pipeline/internal/infra/redis"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/pkg/config"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/pkg/logger"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/service/stream"
)

const (
	serviceName    = "stock-streaming-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Msg("🚀 Starting Stock Streaming API Server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	log.Info().Msg("✅ Database connected")

	// Redis is optional; the latest-trades endpoint degrades to direct DB reads
	redisClient, err := redisinfra.NewClient(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize repositories
	tradeRepo := postgres.NewTradeRepository(dbPool.Pool)
	dailyPriceRepo := postgres.NewDailyPriceRepository(dbPool.Pool)
	stockInfoRepo := postgres.NewStockInfoRepository(dbPool.Pool)

	// Initialize stream publisher
	publisher := stream.NewPublisher(tradeRepo, stream.Config{
		FailureThreshold: cfg.Stream.FailureThreshold,
		BufferSize:       cfg.Stream.BufferSize,
	})

	tradeCache := redisinfra.NewTradeCache(redisClient, tradeRepo, cfg.Redis.LatestTradesTTL)

	// Initialize handlers
	h := api.Handlers{
		TradeStream: handlers.NewTradeStreamHandler(publisher, tradeCache, cfg.Stream.DefaultInterval, cfg.Stream.MaxInterval),
		DailyPrice:  handlers.NewDailyPriceHandler(dailyPriceRepo),
		StockInfo:   handlers.NewStockInfoHandler(stockInfoRepo),
		Health:      handlers.NewHealthHandler(dbPool, redisClient),
	}

	var accessLogger = logger.NewAccessLogger(
		accessLogPath(cfg),
		cfg.Logging.RotationSize,
		cfg.Logging.RetentionDays,
	)

	httpRouter := api.NewRouter(h, middleware.LoggingConfig{
		AccessLogger: &accessLogger,
		SkipPaths:    []string{"/health"},
	})

	// CORS configuration
	allowedOrigins := gorillaHandlers.AllowedOrigins([]string{"*"})
	allowedMethods := gorillaHandlers.AllowedMethods([]string{"GET", "OPTIONS"})
	allowedHeaders := gorillaHandlers.AllowedHeaders([]string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})

	handler := gorillaHandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)(httpRouter)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: cfg.Server.ReadTimeout,
		// No WriteTimeout: SSE connections stay open indefinitely
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("address", addr).
			Msg("🎯 API Server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("👋 Server stopped")
}

func accessLogPath(cfg *config.Config) string {
	if !cfg.Logging.FileEnabled {
		return ""
	}
	return cfg.Logging.FilePath
}
