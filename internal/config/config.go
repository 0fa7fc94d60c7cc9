package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/configs/env"
	"github.com/RishiKendai/overlap/internal/plagiarism"
)

var (
	ErrInvalidSensitivity = errors.New("DEFAULT_SENSITIVITY must be at least 1")
	ErrInvalidSimilarity  = errors.New("DEFAULT_SIMILARITY must not be negative")
)

// Config holds all configuration for the service
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentCompute int
	Workers              int

	// Computation
	ComputationTimeout time.Duration
	DefaultSensitivity int
	DefaultSimilarity  int
	DefaultMetric      string

	// Logging
	LogLevel  string
	LogFormat string

	// Server
	ServerPort  string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "overlap:submissions")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "overlap:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "overlap:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_DURATION", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "overlap")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentCompute = env.GetEnvInt("MAX_CONCURRENT_COMPUTE", 5)
	cfg.Workers = env.GetEnvInt("WORKERS", 0)

	// Computation
	timeoutMinutes := env.GetEnvInt("COMPUTATION_TIMEOUT_MINUTES", 30)
	cfg.ComputationTimeout = time.Duration(timeoutMinutes) * time.Minute
	cfg.DefaultSensitivity = env.GetEnvInt("DEFAULT_SENSITIVITY", 5)
	cfg.DefaultSimilarity = env.GetEnvInt("DEFAULT_SIMILARITY", 0)
	cfg.DefaultMetric = env.GetEnv("DEFAULT_METRIC", "equal")

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")
	cfg.LogFormat = env.GetEnv("LOG_FORMAT", "json")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentCompute <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_COMPUTE must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_DURATION must be greater than 0")
	}
	if c.ComputationTimeout <= 0 {
		return fmt.Errorf("COMPUTATION_TIMEOUT_MINUTES must be greater than 0")
	}
	if c.DefaultSensitivity < 1 {
		return ErrInvalidSensitivity
	}
	if c.DefaultSimilarity < 0 {
		return ErrInvalidSimilarity
	}
	if _, err := plagiarism.ParseMetric(c.DefaultMetric, c.DefaultSimilarity); err != nil {
		return fmt.Errorf("DEFAULT_METRIC: %w", err)
	}
	return nil
}
