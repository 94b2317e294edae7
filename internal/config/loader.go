package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "CASELENS"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so env-only keys must be
	// bound explicitly for LoadFromEnv to work without a config file.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// envKeys lists every key that may be supplied via CASELENS_* environment
// variables, e.g. "server.port" resolves to CASELENS_SERVER_PORT.
var envKeys = []string{
	"server.port", "server.mode",
	"server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"log.level", "log.format",
	"evaluation.weights.structure", "evaluation.weights.coverage",
	"evaluation.weights.quality", "evaluation.weights.similarity",
	"evaluation.weights.uniqueness",
	"evaluation.overlap_threshold", "evaluation.near_duplicate_threshold",
	"evaluation.similarity_threshold",
	"embedding.enabled", "embedding.base_url", "embedding.api_key",
	"embedding.model", "embedding.timeout", "embedding.max_batch_size",
	"embedding.cache_enabled", "embedding.cache_ttl",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode",
	"database.max_conns", "database.min_conns", "database.conn_max_lifetime",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"kafka.brokers", "kafka.group_id",
	"kafka.producer_retries", "kafka.batch_timeout",
	"minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.use_ssl", "minio.bucket",
}

// Load reads the configuration file at path, layers environment variables on
// top, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a configuration from environment variables and defaults
// alone. Useful for containers without a mounted config file.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Watch re-reads the configuration file whenever it changes on disk and
// invokes onChange with the freshly validated result. Invalid updates are
// reported to onError and the previous configuration stays in effect.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
