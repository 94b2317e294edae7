// Command worker consumes asynchronous evaluation requests, evaluates them
// and stores the resulting reports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/CaseLens/internal/application/evaluation"
	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseLens/internal/infrastructure/database/redis"
	"github.com/turtacn/CaseLens/internal/infrastructure/embedding"
	"github.com/turtacn/CaseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/internal/infrastructure/storage/minio"
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
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
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
	log.Info("starting CaseLens worker", logging.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
		return err
	}
	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := repositories.NewReportRepository(conn.Pool(), log)

	archive, err := minio.NewArchive(ctx, cfg.MinIO, log)
	if err != nil {
		// The archive is best effort; the worker still persists to Postgres.
		log.Warn("report archive unavailable", logging.Err(err))
		archive = nil
	}

	var encoder scoring.Encoder
	if cfg.Embedding.Enabled {
		openAI := embedding.NewOpenAIEncoder(embedding.OpenAIConfig{
			BaseURL:      cfg.Embedding.BaseURL,
			APIKey:       cfg.Embedding.APIKey,
			Model:        cfg.Embedding.Model,
			Timeout:      cfg.Embedding.Timeout,
			MaxBatchSize: cfg.Embedding.MaxBatchSize,
		}, log)
		encoder = openAI

		if cfg.Embedding.CacheEnabled {
			rdb, err := redis.NewClient(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			defer rdb.Close()
			encoder = embedding.NewCachedEncoder(openAI, rdb.Universal(), openAI.Model(), cfg.Embedding.CacheTTL, log)
		}
	}

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

	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	handler := newRequestHandler(evaluator, store, archive, producer, log)
	consumer := kafka.NewConsumer(cfg.Kafka, handler, log)
	defer consumer.Close()

	return consumer.Run(ctx)
}

// newRequestHandler decodes evaluation requests, runs the evaluator and
// publishes the outcome.
func newRequestHandler(
	evaluator *evaluation.Evaluator,
	store *repositories.ReportRepository,
	archive *minio.Archive,
	producer *kafka.Producer,
	log logging.Logger,
) kafka.Handler {
	return func(ctx context.Context, envelope kafka.EventEnvelope) error {
		var req kafka.EvaluationRequestedPayload
		if err := json.Unmarshal(envelope.Payload, &req); err != nil {
			log.Warn("dropping undecodable request payload",
				logging.String("event_id", envelope.EventID),
				logging.Err(err),
			)
			return nil
		}

		rep, err := evaluator.EvaluateBatch(ctx, evaluation.Input{
			Cases:     req.Cases,
			Reference: req.Reference,
			PRDText:   req.PRDText,
		})
		if err != nil {
			log.Error("evaluation failed",
				logging.String("request_id", req.RequestID),
				logging.Err(err),
			)
			return producer.PublishEvaluationFailed(ctx, kafka.EvaluationFailedPayload{
				RequestID: req.RequestID,
				Reason:    err.Error(),
				FailedAt:  time.Now().UTC(),
			})
		}

		if err := store.Save(ctx, rep); err != nil {
			// Leave the message uncommitted so the request is retried.
			return err
		}
		if archive != nil {
			if _, err := archive.Store(ctx, rep); err != nil {
				log.Warn("report not archived",
					logging.String("report_id", rep.ID),
					logging.Err(err),
				)
			}
		}

		return producer.PublishEvaluationCompleted(ctx, kafka.EvaluationCompletedPayload{
			RequestID:    req.RequestID,
			ReportID:     rep.ID,
			TotalCases:   rep.TotalCases,
			OverallScore: rep.OverallScore,
			CompletedAt:  time.Now().UTC(),
		})
	}
}
