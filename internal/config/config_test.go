package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)

	assert.Equal(t, 0.2, cfg.Evaluation.Weights.Structure)
	assert.Equal(t, 0.25, cfg.Evaluation.Weights.Coverage)
	assert.Equal(t, 0.25, cfg.Evaluation.Weights.Quality)
	assert.Equal(t, 0.2, cfg.Evaluation.Weights.Similarity)
	assert.Equal(t, 0.1, cfg.Evaluation.Weights.Uniqueness)
	assert.Equal(t, 0.4, cfg.Evaluation.OverlapThreshold)
	assert.Equal(t, 0.85, cfg.Evaluation.NearDuplicateThreshold)
	assert.Equal(t, 0.7, cfg.Evaluation.SimilarityThreshold)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 128, cfg.Embedding.MaxBatchSize)
	assert.Equal(t, 24*time.Hour, cfg.Embedding.CacheTTL)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "caselens-reports", cfg.MinIO.Bucket)
}

func TestApplyDefaultsKeepsExplicitWeights(t *testing.T) {
	cfg := Config{}
	cfg.Evaluation.Weights.Quality = 1.0
	ApplyDefaults(&cfg)

	assert.Equal(t, 1.0, cfg.Evaluation.Weights.Quality)
	assert.Equal(t, 0.0, cfg.Evaluation.Weights.Structure)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		ApplyDefaults(&cfg)
		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults pass", mutate: func(*Config) {}},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "server.port",
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Server.Mode = "verbose" },
			wantErr: "server.mode",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Evaluation.NearDuplicateThreshold = 1.5 },
			wantErr: "near_duplicate_threshold",
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.Evaluation.Weights.Coverage = -0.1 },
			wantErr: "non-negative",
		},
		{
			name: "embedding enabled without model",
			mutate: func(c *Config) {
				c.Embedding.Enabled = true
				c.Embedding.Model = ""
			},
			wantErr: "embedding.model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "caselens", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/caselens?sslmode=disable", d.DSN())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
  mode: debug
log:
  level: debug
evaluation:
  overlap_threshold: 0.5
embedding:
  enabled: true
  model: my-embedder
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.5, cfg.Evaluation.OverlapThreshold)
	assert.Equal(t, "my-embedder", cfg.Embedding.Model)
	// Untouched sections still get defaults.
	assert.Equal(t, 0.85, cfg.Evaluation.NearDuplicateThreshold)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CASELENS_SERVER_PORT", "7070")
	t.Setenv("CASELENS_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: bogus\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}
