// Package config centralizes environment-driven configuration so main stays lean.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, parsed from the environment.
type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Amice    AmiceConfig
	Streams  StreamConfig
	Declare  DeclarationConfig
	Kafka    KafkaConfig
}

// HTTPConfig configures the inbound HTTP listener. The write timeout leaves
// room for a synchronous registry validation inside the request.
type HTTPConfig struct {
	Addr              string        `env:"WASTETRACK_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
}

// PostgresConfig configures the primary database connection.
type PostgresConfig struct {
	DSN          string        `env:"POSTGRES_DSN"`
	MaxOpenConns int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnLifetime time.Duration `env:"POSTGRES_CONN_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the optional company cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	CacheTTL     time.Duration `env:"REDIS_CACHE_TTL" envDefault:"15m"`
}

// AmiceConfig configures the external registry web service. An empty endpoint
// means the client is unconfigured; validations then degrade to an
// already-invalid result instead of a network call.
type AmiceConfig struct {
	Endpoint       string        `env:"AMICE_ENDPOINT"`
	Username       string        `env:"AMICE_USERNAME"`
	Password       string        `env:"AMICE_PASSWORD"`
	RequestTimeout time.Duration `env:"AMICE_REQUEST_TIMEOUT" envDefault:"30s"`
}

// StreamConfig holds waste stream lifecycle tuning.
//
// The decay thresholds are deliberately configuration, not constants: the
// registry's inactivity policy is contractual and subject to change.
type StreamConfig struct {
	InactiveAfter time.Duration `env:"WS_INACTIVE_AFTER" envDefault:"8760h"` // 12 months
	ExpireAfter   time.Duration `env:"WS_EXPIRE_AFTER" envDefault:"26280h"`  // 36 months
}

// DeclarationConfig drives the periodic receival declaration runs.
type DeclarationConfig struct {
	// Cron gate for declaration runs; default fires at 03:00 on the 2nd of
	// each month, reporting over the previous month.
	Schedule     string        `env:"DECLARE_SCHEDULE" envDefault:"0 3 2 * *"`
	PollSchedule string        `env:"DECLARE_POLL_SCHEDULE" envDefault:"*/15 * * * *"`
	Tick         time.Duration `env:"DECLARE_TICK" envDefault:"1m"`
}

// KafkaConfig configures lifecycle event publishing. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"wastetrack.lifecycle"`
}

// FromEnv parses the full configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
