package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// API client
	APIBaseURL        string        `env:"API_BASE_URL"       envDefault:"http://localhost:8080"`
	APITimeout        time.Duration `env:"API_TIMEOUT"        envDefault:"30s"`
	CredentialBackend string        `env:"CREDENTIAL_BACKEND" envDefault:"file"`
	CredentialFile    string        `env:"CREDENTIAL_FILE"    envDefault:""`

	// Redis (credential backend "redis")
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// Reference auth server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Token issuance (reference server)
	JWTSecret       string        `env:"JWT_SECRET"        envDefault:"dev-secret"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
