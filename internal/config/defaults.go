package config

import "time"

// ApplyDefaults fills zero-valued fields with sensible defaults so that a
// minimal configuration file still yields a runnable service.
func ApplyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}

	w := &c.Evaluation.Weights
	if w.Structure == 0 && w.Coverage == 0 && w.Quality == 0 && w.Similarity == 0 && w.Uniqueness == 0 {
		w.Structure = 0.2
		w.Coverage = 0.25
		w.Quality = 0.25
		w.Similarity = 0.2
		w.Uniqueness = 0.1
	}
	if c.Evaluation.OverlapThreshold == 0 {
		c.Evaluation.OverlapThreshold = 0.4
	}
	if c.Evaluation.NearDuplicateThreshold == 0 {
		c.Evaluation.NearDuplicateThreshold = 0.85
	}
	if c.Evaluation.SimilarityThreshold == 0 {
		c.Evaluation.SimilarityThreshold = 0.7
	}

	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = 30 * time.Second
	}
	if c.Embedding.MaxBatchSize == 0 {
		c.Embedding.MaxBatchSize = 128
	}
	if c.Embedding.CacheTTL == 0 {
		c.Embedding.CacheTTL = 24 * time.Hour
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "caselens"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "caselens"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}

	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "caselens-workers"
	}
	if c.Kafka.ProducerRetries == 0 {
		c.Kafka.ProducerRetries = 3
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 100 * time.Millisecond
	}

	if c.MinIO.Endpoint == "" {
		c.MinIO.Endpoint = "localhost:9000"
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "caselens-reports"
	}
}
