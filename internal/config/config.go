// Package config defines all configuration structures for the CaseLens
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricWeightsConfig holds the aggregation weight of each evaluation metric.
type MetricWeightsConfig struct {
	Structure  float64 `mapstructure:"structure"`
	Coverage   float64 `mapstructure:"coverage"`
	Quality    float64 `mapstructure:"quality"`
	Similarity float64 `mapstructure:"similarity"`
	Uniqueness float64 `mapstructure:"uniqueness"`
}

// EvaluationConfig holds the scoring thresholds and weights.
type EvaluationConfig struct {
	Weights                MetricWeightsConfig `mapstructure:"weights"`
	OverlapThreshold       float64             `mapstructure:"overlap_threshold"`
	NearDuplicateThreshold float64             `mapstructure:"near_duplicate_threshold"`
	SimilarityThreshold    float64             `mapstructure:"similarity_threshold"`
}

// EmbeddingConfig holds the embedding-provider settings.
type EmbeddingConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBatchSize int           `mapstructure:"max_batch_size"`
	CacheEnabled bool          `mapstructure:"cache_enabled"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig holds Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
}

// MinIOConfig holds object-storage parameters for archived reports.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
}

// DSN renders the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// Validate checks cross-field consistency after defaults are applied.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode)
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"evaluation.overlap_threshold", c.Evaluation.OverlapThreshold},
		{"evaluation.near_duplicate_threshold", c.Evaluation.NearDuplicateThreshold},
		{"evaluation.similarity_threshold", c.Evaluation.SimilarityThreshold},
	} {
		if t.value <= 0 || t.value > 1 {
			return fmt.Errorf("%s %v must be in (0,1]", t.name, t.value)
		}
	}
	w := c.Evaluation.Weights
	if w.Structure < 0 || w.Coverage < 0 || w.Quality < 0 || w.Similarity < 0 || w.Uniqueness < 0 {
		return fmt.Errorf("evaluation.weights must be non-negative")
	}
	if w.Structure+w.Coverage+w.Quality+w.Similarity+w.Uniqueness == 0 {
		return fmt.Errorf("evaluation.weights must not all be zero")
	}
	if c.Embedding.Enabled && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model required when embedding is enabled")
	}
	return nil
}
