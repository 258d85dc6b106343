// config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the wallet service reads from the environment.
type Config struct {
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	Port           int    `envconfig:"PORT" default:"5300"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// ServiceToken authenticates the Gateway; JWTSecret verifies direct
	// client sessions. At least one must be set.
	ServiceToken string `envconfig:"WALLET_SERVICE_TOKEN"`
	JWTSecret    string `envconfig:"WALLET_JWT_SECRET"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	LeaderboardRefreshInterval time.Duration `envconfig:"LEADERBOARD_REFRESH_INTERVAL" default:"10m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServiceToken == "" && c.JWTSecret == "" {
		return fmt.Errorf("WALLET_SERVICE_TOKEN or WALLET_JWT_SECRET is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}
