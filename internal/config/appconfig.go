package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration, parsed from environment variables.
type Config struct {
	Addr           string `env:"NARUTO_ADDR" envDefault:":3000"`
	DBPath         string `env:"NARUTO_DB_PATH" envDefault:"data/naruto.db"`
	JWTSecret      string `env:"NARUTO_JWT_SECRET"`
	JWTTTLHours    int    `env:"NARUTO_JWT_TTL_HOURS" envDefault:"168"`
	DBTimeoutMS    int    `env:"NARUTO_DB_TIMEOUT_MS" envDefault:"3000"`
	GameDataPath   string `env:"NARUTO_GAME_DATA"`
	DevInsecureJWT bool   `env:"NARUTO_DEV_INSECURE_JWT" envDefault:"false"`
}

// FromEnv loads and validates server configuration.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		if !c.DevInsecureJWT {
			return errors.New("NARUTO_JWT_SECRET is required (set NARUTO_DEV_INSECURE_JWT=true for local development)")
		}
		c.JWTSecret = "dev-only-insecure-secret"
	}
	if c.JWTTTLHours <= 0 {
		c.JWTTTLHours = 168
	}
	if c.DBTimeoutMS <= 0 {
		c.DBTimeoutMS = 3000
	}
	return nil
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// DBTimeout bounds every persistence call.
func (c *Config) DBTimeout() time.Duration {
	return time.Duration(c.DBTimeoutMS) * time.Millisecond
}
