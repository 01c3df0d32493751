package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Supported message store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all runtime settings, read from the environment.
type Config struct {
	Port         string `envconfig:"PORT" default:"8083"`
	Env          string `envconfig:"ENV" default:"development"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`
	DBDSN        string `envconfig:"DB_DSN" default:"./chat_database.db"`
	RedisURL     string `envconfig:"REDIS_URL"`

	// IsHost enables room creation with a 6-digit code.
	IsHost   bool `envconfig:"IS_HOST" default:"false"`
	MaxUsers int  `envconfig:"MAX_USERS" default:"50"`

	AMQPURL         string `envconfig:"AMQP_URL"`
	AMQPExchange    string `envconfig:"AMQP_EXCHANGE" default:"chat.events"`
	AuditRoutingKey string `envconfig:"AUDIT_ROUTING_KEY" default:"audit.chatroom"`
	OTLPEndpoint    string `envconfig:"OTLP_ENDPOINT"`
	DebugRoutes     bool   `envconfig:"DEBUG_ROUTES" default:"false"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendPostgres, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.MaxUsers <= 0 {
		return fmt.Errorf("MAX_USERS must be positive, got %d", c.MaxUsers)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
