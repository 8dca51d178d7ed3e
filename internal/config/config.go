package config

import (
	"time"

	"github.com/mcoot/hoyorecord/internal/services/account"
	"github.com/mcoot/hoyorecord/internal/services/dispatch"
	"github.com/mcoot/hoyorecord/internal/services/record"
	redisstorage "github.com/mcoot/hoyorecord/internal/storage/redis"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the full application configuration
type Config struct {
	// Cookie is the raw browser cookie string for the platform session
	Cookie string `koanf:"cookie" validate:"required"`
	// AccountID is the platform account id. Zero derives it from the cookie.
	AccountID int64  `koanf:"account_id" validate:"gte=0"`
	Language  string `koanf:"language" validate:"required"`

	Upstream UpstreamConfig `koanf:"upstream"`
	Storage  StorageConfig  `koanf:"storage"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
}

// UpstreamConfig controls outbound requests to the platform
type UpstreamConfig struct {
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	Burst         int           `koanf:"burst" validate:"gte=0"`
	CardURL       string        `koanf:"card_url" validate:"required,url"`
	RecordBaseURL string        `koanf:"record_base_url" validate:"required,url"`
	Breaker       BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the upstream circuit breaker
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout      time.Duration `koanf:"timeout" validate:"gte=0"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gte=0,lte=1"`
}

// StorageConfig selects where resolved account records are cached
type StorageConfig struct {
	Type string `koanf:"type" validate:"oneof=memory redis"`
	// RecordTTL bounds how long a resolved record is reused by either backend.
	// Zero keeps records until they are forgotten.
	RecordTTL time.Duration `koanf:"record_ttl" validate:"gte=0"`
	Redis     RedisConfig   `koanf:"redis"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size" validate:"gte=0"`
	MinIdleConns int    `koanf:"min_idle_conns" validate:"gte=0"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	// APITokenHash is a bcrypt hash. When set, /api/v1 requires a matching bearer token.
	APITokenHash string `koanf:"api_token_hash"`
}

// LogConfig controls the application logger
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// Default returns the configuration used before any file or env override
func Default() *Config {
	dispatchCfg := dispatch.DefaultConfig()
	redisCfg := redisstorage.DefaultConfig()
	return &Config{
		Language: dispatchCfg.Language,
		Upstream: UpstreamConfig{
			Timeout:       dispatchCfg.Timeout,
			RatePerSecond: dispatchCfg.RatePerSecond,
			Burst:         dispatchCfg.Burst,
			CardURL:       account.DefaultCardURL,
			RecordBaseURL: record.DefaultBaseURL,
			Breaker: BreakerConfig{
				MaxRequests:  dispatchCfg.Breaker.MaxRequests,
				Interval:     dispatchCfg.Breaker.Interval,
				Timeout:      dispatchCfg.Breaker.Timeout,
				MinRequests:  dispatchCfg.Breaker.MinRequests,
				FailureRatio: dispatchCfg.Breaker.FailureRatio,
			},
		},
		Storage: StorageConfig{
			Type:      StorageTypeMemory,
			RecordTTL: redisCfg.RecordTTL,
			Redis: RedisConfig{
				URL:          redisCfg.URL,
				PoolSize:     redisCfg.PoolSize,
				MinIdleConns: redisCfg.MinIdleConns,
			},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DispatchConfig converts the upstream section for the dispatcher
func (c *Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		Timeout:       c.Upstream.Timeout,
		RatePerSecond: c.Upstream.RatePerSecond,
		Burst:         c.Upstream.Burst,
		Language:      c.Language,
		Breaker: dispatch.BreakerConfig{
			MaxRequests:  c.Upstream.Breaker.MaxRequests,
			Interval:     c.Upstream.Breaker.Interval,
			Timeout:      c.Upstream.Breaker.Timeout,
			MinRequests:  c.Upstream.Breaker.MinRequests,
			FailureRatio: c.Upstream.Breaker.FailureRatio,
		},
	}
}

// RedisStorageConfig converts the redis section for the storage backend
func (c *Config) RedisStorageConfig() redisstorage.Config {
	return redisstorage.Config{
		URL:          c.Storage.Redis.URL,
		PoolSize:     c.Storage.Redis.PoolSize,
		MinIdleConns: c.Storage.Redis.MinIdleConns,
		RecordTTL:    c.Storage.RecordTTL,
	}
}
