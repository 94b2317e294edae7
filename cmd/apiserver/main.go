// Command apiserver runs the CaseLens HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/redis"
	"github.com/turtacn/CaseLens/internal/infrastructure/embedding"
	"github.com/turtacn/CaseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/CaseLens/internal/interfaces/http"
	"github.com/turtacn/CaseLens/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	log.Info("starting CaseLens API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage.
	if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
		return err
	}
	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := repositories.NewReportRepository(conn.Pool(), log)

	metrics := prometheus.NewMetrics()

	// Embedding encoder, optionally cached in Redis.
	checks := map[string]handlers.Checker{"postgres": conn.HealthCheck}
	var encoder scoring.Encoder
	if cfg.Embedding.Enabled {
		openAI := embedding.NewOpenAIEncoder(embedding.OpenAIConfig{
			BaseURL:      cfg.Embedding.BaseURL,
			APIKey:       cfg.Embedding.APIKey,
			Model:        cfg.Embedding.Model,
			Timeout:      cfg.Embedding.Timeout,
			MaxBatchSize: cfg.Embedding.MaxBatchSize,
		}, log, embedding.WithStats(metrics))
		encoder = openAI

		if cfg.Embedding.CacheEnabled {
			rdb, err := redis.NewClient(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			defer rdb.Close()
			checks["redis"] = rdb.HealthCheck
			encoder = embedding.NewCachedEncoder(openAI, rdb.Universal(), openAI.Model(), cfg.Embedding.CacheTTL, log,
				embedding.WithStats(metrics))
		}
	}

	// Async evaluation transport.
	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	evaluator := evaluation.NewEvaluator(encoder, log,
		evaluation.WithMetricWeights(evaluation.MetricWeights{
			Structure:  cfg.Evaluation.Weights.Structure,
			Coverage:   cfg.Evaluation.Weights.Coverage,
			Quality:    cfg.Evaluation.Weights.Quality,
			Similarity: cfg.Evaluation.Weights.Similarity,
			Uniqueness: cfg.Evaluation.Weights.Uniqueness,
		}),
		evaluation.WithThresholds(evaluation.Thresholds{
			Overlap:       cfg.Evaluation.OverlapThreshold,
			NearDuplicate: cfg.Evaluation.NearDuplicateThreshold,
			Similarity:    cfg.Evaluation.SimilarityThreshold,
		}))

	router := httpserver.NewRouter(httpserver.RouterConfig{
		EvaluationHandler: handlers.NewEvaluationHandler(evaluator, store, producer, metrics, log),
		ReportHandler:     handlers.NewReportHandler(store),
		HealthHandler:     handlers.NewHealthHandler(version, checks),
		Metrics:           metrics,
		Logger:            log,
		Mode:              cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}
