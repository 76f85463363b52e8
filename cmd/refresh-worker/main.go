package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/db"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/queue"
	"github.com/Cxsmxnaut/Gradely/internal/service"
	"github.com/Cxsmxnaut/Gradely/internal/store"
	"github.com/Cxsmxnaut/Gradely/internal/synergy"
	"github.com/Cxsmxnaut/Gradely/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting refresh worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// The worker writes through the same chain as the API so the local
	// fallback stays warm
	repo := db.NewRepository(database)
	stores := store.NewChain(repo, store.NewFileStore(cfg.Cache.FallbackPath))

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	producer := queue.NewProducer(redisClient, cfg)
	sessions := queue.NewSessionRegistry(redisClient)

	// Initialize upstream client and the grades service
	upstream := synergy.NewClient(cfg)
	grades := service.NewGrades(cfg, upstream, stores, repo, producer, sessions)

	// Create refresh worker
	refreshWorker := worker.NewRefreshWorker(cfg, grades, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := refreshWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Refresh worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down refresh worker...")

	// Cancel context to stop worker
	cancel()
	refreshWorker.Stop()

	log.Info().Msg("Refresh worker exited")
}
