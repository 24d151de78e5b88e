// Package config loads server configuration from environment variables.
//
// WHY A CONFIG PACKAGE?
// main.go used to read os.Getenv inline for every setting. Centralising
// config in one struct means every knob is declared (with its default) in a
// single place, and the env tags double as documentation of the deployment
// surface.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the API server.
//
// Tags are parsed by caarlos0/env: `env` names the variable, `envDefault`
// supplies the value when it's unset, and envSeparator splits lists.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"5000"`

	// DBPath is the SQLite database file. The parent directory is created
	// on startup if missing.
	DBPath string `env:"DB_PATH" envDefault:"data/pokedex.db"`

	// JWTSecret signs and verifies bearer tokens. No default on purpose:
	// a guessable fallback secret would let anyone forge tokens, so the
	// server refuses to start without one.
	JWTSecret string `env:"JWT_SECRET"`

	// CORSAllowedOrigins lists origins the browser client may call from.
	// "*" is fine for local development; lock it down in production.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load parses configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set (try: openssl rand -hex 32)")
	}

	return &cfg, nil
}
