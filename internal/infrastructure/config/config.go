package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// MachineAPIKey is the shared key kiosks present to obtain a device token.
	// Machine auth is disabled when empty.
	MachineAPIKey string `env:"MACHINE_API_KEY"`

	Workers int `env:"WORKERS, default=8"`
	// DedupWindow is how long a processed heartbeat is remembered.
	DedupWindow time.Duration `env:"DEDUP_WINDOW, default=1h"`

	Mongo   MongoConfig
	Redis   RedisConfig
	NATS    NATSConfig
	Tracing TracingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=food_network"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// NATSConfig is optional; an empty URL disables status fan-out.
type NATSConfig struct {
	URL     string `env:"NATS_URL"`
	Subject string `env:"NATS_SUBJECT, default=machines.status"`
}

type TracingConfig struct {
	Enabled bool `env:"TRACING_ENABLED, default=false"`
}

// IsDevelopment reports whether pretty logging and stdout tracing are expected.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	return cfg
}

// LoadFrom resolves configuration through lookuper; tests pass a map lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
