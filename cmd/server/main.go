package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/overlap/internal/api"
	"github.com/RishiKendai/overlap/internal/config"
	"github.com/RishiKendai/overlap/internal/configs/env"
	"github.com/RishiKendai/overlap/internal/infra/mongo"
	redisInfra "github.com/RishiKendai/overlap/internal/infra/redis"
	"github.com/RishiKendai/overlap/internal/ingest"
	"github.com/RishiKendai/overlap/internal/logger"
	"github.com/RishiKendai/overlap/internal/metrics"
	"github.com/RishiKendai/overlap/internal/plagiarism"
	"github.com/RishiKendai/overlap/internal/repository"
	"github.com/RishiKendai/overlap/internal/stream"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "overlap"})
	log.Info().Msg("Starting overlap server")

	metrics.InitPrometheus()
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := api.StartServer(metricsMux, cfg.MetricsPort, "metrics")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(context.Background())

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	mongoRepo := repository.NewMongoRepository(mongoClient)
	documentsRepo := repository.NewDocumentsRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)

	ingestSvc := ingest.NewService(documentsRepo)
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(redisClient.Client, stream.ConsumerOptions{
		StreamKey: cfg.RedisStreamKey,
		Group:     cfg.RedisConsumerGroup,
		Name:      consumerName,
		Retention: cfg.StreamRetentionDuration,
	}, ingestSvc, retryHandler)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	workerPool := plagiarism.NewWorkerPool(ctx, cfg.Workers)
	defer workerPool.Close()

	handler := api.NewHandler(cfg, documentsRepo, reportsRepo, ingestSvc, redisClient, workerPool)
	router := api.SetupRoutes(cfg, handler)

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	srv := api.StartServer(router, cfg.ServerPort, "api")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down API server")
	}

	consumerCancel()
	<-consumerDone

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := handler.Wait(waitCtx); err != nil {
		log.Warn().Err(err).Msg("Computations still running at shutdown")
	}
	waitCancel()

	if err := api.ShutdownServer(metricsServer, 5*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
