// Package embedding provides the concrete text-embedding encoders behind the
// scoring layer's Encoder port: an OpenAI-compatible client and a Redis
// caching decorator.
package embedding

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseLens/pkg/errors"
)

// OpenAIConfig configures the OpenAI-compatible embedding backend.  BaseURL
// allows pointing at any server speaking the same API, including local ones.
type OpenAIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBatchSize int           `mapstructure:"max_batch_size"`
}

const (
	defaultModel        = "text-embedding-3-small"
	defaultTimeout      = 30 * time.Second
	defaultMaxBatchSize = 128
)

// embeddingAPI abstracts the go-openai client for testing.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Stats receives embedding traffic counts.  Implementations must be safe for
// concurrent use; prometheus collectors qualify.
type Stats interface {
	ObserveEmbeddingRequest(result string)
	AddEmbeddingCacheHits(n int)
	AddEmbeddingCacheMisses(n int)
}

// Provider call results reported through Stats.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

type nopStats struct{}

func (nopStats) ObserveEmbeddingRequest(string) {}
func (nopStats) AddEmbeddingCacheHits(int)      {}
func (nopStats) AddEmbeddingCacheMisses(int)    {}

// Option configures an encoder constructor.
type Option func(*options)

type options struct {
	stats Stats
}

// WithStats wires traffic counters into an encoder.
func WithStats(s Stats) Option {
	return func(o *options) {
		if s != nil {
			o.stats = s
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{stats: nopStats{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// OpenAIEncoder implements scoring.Encoder over the embeddings API.
type OpenAIEncoder struct {
	api      embeddingAPI
	model    openai.EmbeddingModel
	maxBatch int
	stats    Stats
	logger   logging.Logger
}

var _ scoring.Encoder = (*OpenAIEncoder)(nil)

// NewOpenAIEncoder constructs an encoder from cfg.
func NewOpenAIEncoder(cfg OpenAIConfig, logger logging.Logger, opts ...Option) *OpenAIEncoder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIEncoder{
		api:      openai.NewClientWithConfig(clientCfg),
		model:    openai.EmbeddingModel(cfg.Model),
		maxBatch: cfg.MaxBatchSize,
		stats:    applyOptions(opts).stats,
		logger:   logger.Named("embedding.openai"),
	}
}

// Model returns the configured model name, used by caching decorators to
// namespace keys.
func (e *OpenAIEncoder) Model() string {
	return string(e.model)
}

// Encode embeds texts in provider batches of at most MaxBatchSize, returning
// one vector per text in input order.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.maxBatch {
		end := min(start+e.maxBatch, len(texts))

		resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts[start:end],
			Model: e.model,
		})
		if err != nil {
			e.stats.ObserveEmbeddingRequest(ResultError)
			return nil, errors.Wrap(err, errors.CodeEmbeddingUnavailable, "create embeddings")
		}
		if len(resp.Data) != end-start {
			e.stats.ObserveEmbeddingRequest(ResultError)
			return nil, errors.Newf(errors.CodeEmbeddingUnavailable,
				"provider returned %d vectors for %d texts", len(resp.Data), end-start)
		}
		e.stats.ObserveEmbeddingRequest(ResultSuccess)
		for _, d := range resp.Data {
			out = append(out, d.Embedding)
		}
	}

	e.logger.Debug("encoded batch", logging.Int("texts", len(texts)))
	return out, nil
}
