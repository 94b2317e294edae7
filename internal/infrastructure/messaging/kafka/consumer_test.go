package kafka

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
)

type mockReader struct {
	queue     []kafka.Message
	committed []kafka.Message
}

func (m *mockReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(m.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, nil
}

func (m *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockReader) Close() error { return nil }

func envelopeMessage(t *testing.T, payload EvaluationRequestedPayload) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	value, err := json.Marshal(EventEnvelope{
		EventID:       "evt-1",
		EventType:     TopicEvaluationRequested,
		Source:        "test",
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       raw,
	})
	require.NoError(t, err)
	return kafka.Message{Topic: TopicEvaluationRequested, Value: value}
}

func TestConsumerDispatchesAndCommits(t *testing.T) {
	reader := &mockReader{queue: []kafka.Message{
		envelopeMessage(t, EvaluationRequestedPayload{RequestID: "req-1", Cases: []string{"case"}}),
	}}

	var handled []string
	handler := func(_ context.Context, env EventEnvelope) error {
		var p EvaluationRequestedPayload
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		handled = append(handled, p.RequestID)
		return nil
	}

	c := NewConsumerWithReader(reader, handler, logging.NewNopLogger())
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{"req-1"}, handled)
	assert.Len(t, reader.committed, 1)
}

func TestConsumerSkipsMalformedMessages(t *testing.T) {
	reader := &mockReader{queue: []kafka.Message{
		{Topic: TopicEvaluationRequested, Value: []byte("not json")},
		envelopeMessage(t, EvaluationRequestedPayload{RequestID: "req-2"}),
	}}

	var handled int
	c := NewConsumerWithReader(reader, func(context.Context, EventEnvelope) error {
		handled++
		return nil
	}, logging.NewNopLogger())

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 1, handled)
	// Malformed message is committed so it is not redelivered.
	assert.Len(t, reader.committed, 2)
}

func TestConsumerLeavesFailedMessagesUncommitted(t *testing.T) {
	reader := &mockReader{queue: []kafka.Message{
		envelopeMessage(t, EvaluationRequestedPayload{RequestID: "req-3"}),
	}}

	c := NewConsumerWithReader(reader, func(context.Context, EventEnvelope) error {
		return assert.AnError
	}, logging.NewNopLogger())

	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, reader.committed)
}

func TestConsumerRejectsConcurrentRun(t *testing.T) {
	c := NewConsumerWithReader(&mockReader{}, func(context.Context, EventEnvelope) error {
		return nil
	}, logging.NewNopLogger())
	c.running.Store(true)

	err := c.Run(context.Background())
	assert.Error(t, err)
}
