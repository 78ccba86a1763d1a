package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL bounds the stateless bearer cookie; SessionTTL bounds the
	// server-tracked session. Sliding extends a session on every resolved
	// request.
	TokenTTL       time.Duration `env:"TOKEN_TTL,       default=1h"`
	SessionTTL     time.Duration `env:"SESSION_TTL,     default=24h"`
	SessionSliding bool          `env:"SESSION_SLIDING, default=false"`

	BcryptCost   int `env:"BCRYPT_COST,   default=10"`
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dealership"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Development reports whether the deployment is a local development
// environment; cookie `secure` flags key off this.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from the environment using go-envconfig. A .env
// file in the working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
