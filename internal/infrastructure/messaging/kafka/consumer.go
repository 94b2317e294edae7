package kafka

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"io"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
)

// Handler processes one decoded event envelope. Returning an error leaves the
// message uncommitted so it is redelivered.
type Handler func(ctx context.Context, envelope EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads evaluation request events and dispatches them to a handler.
type Consumer struct {
	reader  ReaderInterface
	handler Handler
	logger  logging.Logger
	running atomic.Bool
}

// NewConsumer subscribes to the evaluation request topic using the configured
// consumer group.
func NewConsumer(cfg config.KafkaConfig, handler Handler, log logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       TopicEvaluationRequested,
		StartOffset: kafka.FirstOffset,
	})
	return &Consumer{reader: reader, handler: handler, logger: log.Named("kafka_consumer")}
}

// NewConsumerWithReader wires a custom reader, used in tests.
func NewConsumerWithReader(r ReaderInterface, handler Handler, log logging.Logger) *Consumer {
	return &Consumer{reader: r, handler: handler, logger: log}
}

// Run consumes messages until ctx is canceled or the reader is closed.
// Malformed envelopes are committed and skipped; handler errors leave the
// message uncommitted for redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New(errors.CodeInternal, "consumer already running")
	}
	defer c.running.Store(false)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if goerrors.Is(err, context.Canceled) || goerrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.CodeMessagingError, "fetch message")
		}

		var envelope EventEnvelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			c.logger.Warn("skipping malformed event",
				logging.String("topic", msg.Topic),
				logging.Err(err),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return errors.Wrap(err, errors.CodeMessagingError, "commit message")
			}
			continue
		}

		if err := c.handler(ctx, envelope); err != nil {
			c.logger.Error("handler failed, message left uncommitted",
				logging.String("event_id", envelope.EventID),
				logging.Err(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.CodeMessagingError, "commit message")
		}
	}
}

// Close shuts down the underlying reader, which unblocks Run.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return errors.Wrap(err, errors.CodeMessagingError, "close consumer")
	}
	return nil
}
