package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CaseLens/internal/config"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
)

const producerSource = "caselens"

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes evaluation events.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
}

// NewProducer creates a producer over the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer, logger: log.Named("kafka_producer")}
}

// NewProducerWithWriter wires a custom writer, used in tests.
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log}
}

// PublishEvaluationRequested enqueues a batch for asynchronous evaluation.
func (p *Producer) PublishEvaluationRequested(ctx context.Context, payload EvaluationRequestedPayload) error {
	return p.publish(ctx, TopicEvaluationRequested, payload.RequestID, payload)
}

// PublishEvaluationCompleted announces a finished evaluation.
func (p *Producer) PublishEvaluationCompleted(ctx context.Context, payload EvaluationCompletedPayload) error {
	return p.publish(ctx, TopicEvaluationCompleted, payload.RequestID, payload)
}

// PublishEvaluationFailed reports a batch that could not be evaluated.
func (p *Producer) PublishEvaluationFailed(ctx context.Context, payload EvaluationFailedPayload) error {
	return p.publish(ctx, TopicEvaluationFailed, payload.RequestID, payload)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "marshal event payload")
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     topic,
		Source:        producerSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       raw,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish event",
			logging.String("topic", topic),
			logging.String("key", key),
			logging.Err(err),
		)
		return errors.Wrap(err, errors.CodeMessagingError, "publish event")
	}

	p.logger.Debug("published event",
		logging.String("topic", topic),
		logging.String("event_id", envelope.EventID),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return errors.Wrap(err, errors.CodeMessagingError, "close producer")
	}
	return nil
}
