package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BcryptCost is the work factor for credential hashing.
	BcryptCost int `env:"BCRYPT_COST, default=10"`

	JWT       JWTConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	Issuer   string        `env:"JWT_ISSUER,   default=commerce-api"`
	Audience string        `env:"JWT_AUDIENCE, default=commerce-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=24h"`
}

type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failed logins that locks the account.
	MaxAttempts int `env:"LOCKOUT_MAX_ATTEMPTS, default=5"`
	// LockDuration is how long the account stays locked.
	LockDuration time.Duration `env:"LOCKOUT_DURATION, default=2h"`
}

type RateLimitConfig struct {
	Window       time.Duration `env:"RATE_LIMIT_WINDOW,  default=15m"`
	GeneralLimit int           `env:"RATE_LIMIT_GENERAL, default=100"`
	AuthLimit    int           `env:"RATE_LIMIT_AUTH,    default=5"`
	WriteLimit   int           `env:"RATE_LIMIT_WRITE,   default=20"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=commerce"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
