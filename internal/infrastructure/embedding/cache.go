package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/CaseLens/internal/application/scoring"
	"github.com/turtacn/CaseLens/internal/infrastructure/monitoring/logging"
)

// DefaultCacheTTL bounds how long a cached vector stays valid.
const DefaultCacheTTL = 24 * time.Hour

// CachedEncoder decorates an Encoder with a Redis vector cache keyed by
// model and text.  Cache failures fall through to the inner encoder; the
// cache can only speed things up, never break an evaluation.
type CachedEncoder struct {
	inner  scoring.Encoder
	rdb    redis.UniversalClient
	model  string
	ttl    time.Duration
	stats  Stats
	logger logging.Logger
}

var _ scoring.Encoder = (*CachedEncoder)(nil)

// NewCachedEncoder wraps inner with a cache on rdb.  model namespaces the
// keys so switching models never serves stale vectors.
func NewCachedEncoder(inner scoring.Encoder, rdb redis.UniversalClient, model string, ttl time.Duration, logger logging.Logger, opts ...Option) *CachedEncoder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedEncoder{
		inner:  inner,
		rdb:    rdb,
		model:  model,
		ttl:    ttl,
		stats:  applyOptions(opts).stats,
		logger: logger.Named("embedding.cache"),
	}
}

// Encode serves what it can from the cache and delegates only the misses to
// the inner encoder, preserving input order.
func (c *CachedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	out := make([][]float32, len(texts))
	var missIdx []int

	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("cache read failed, delegating whole batch", logging.Err(err))
		c.stats.AddEmbeddingCacheMisses(len(texts))
		return c.inner.Encode(ctx, texts)
	}
	for i, raw := range cached {
		s, ok := raw.(string)
		if !ok {
			missIdx = append(missIdx, i)
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(s), &vec); err != nil {
			missIdx = append(missIdx, i)
			continue
		}
		out[i] = vec
	}

	c.stats.AddEmbeddingCacheHits(len(texts) - len(missIdx))
	c.stats.AddEmbeddingCacheMisses(len(missIdx))

	if len(missIdx) == 0 {
		return out, nil
	}

	missTexts := make([]string, len(missIdx))
	for i, idx := range missIdx {
		missTexts[i] = texts[idx]
	}
	vectors, err := c.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	pipe := c.rdb.Pipeline()
	for i, idx := range missIdx {
		out[idx] = vectors[i]
		if payload, err := json.Marshal(vectors[i]); err == nil {
			pipe.Set(ctx, keys[idx], payload, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("cache write failed", logging.Err(err), logging.Int("vectors", len(missIdx)))
	}

	c.logger.Debug("cache lookup",
		logging.Int("texts", len(texts)), logging.Int("misses", len(missIdx)))
	return out, nil
}

func (c *CachedEncoder) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "|" + text))
	return "caselens:embedding:" + hex.EncodeToString(sum[:])
}
