package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds server settings. Every field can be overridden by the
// LEGISLATURE_* variable in its env tag.
type Config struct {
	Port           int      `yaml:"port" env:"LEGISLATURE_PORT"`
	PublicURL      string   `yaml:"public_url" env:"LEGISLATURE_PUBLIC_URL"`                            // base for QR join links; empty uses the request host
	DeckSeed       uint64   `yaml:"deck_seed" env:"LEGISLATURE_DECK_SEED"`                              // 0 picks a random seed per game
	Metrics        bool     `yaml:"metrics" env:"LEGISLATURE_METRICS"`                                  // expose /metrics
	HistoryLimit   int      `yaml:"history_limit" env:"LEGISLATURE_HISTORY_LIMIT"`                      // snapshots kept per game, 0 keeps all
	AllowedOrigins []string `yaml:"allowed_origins" env:"LEGISLATURE_ALLOWED_ORIGINS" envSeparator:","` // websocket origins, empty allows any
}

func Default() Config {
	return Config{
		Port:         8080,
		Metrics:      true,
		HistoryLimit: 500,
	}
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and LEGISLATURE_* environment variables, in that order.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the environment.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %q: %w", envFile, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	return cfg, cfg.Validate()
}

func trimAll(list []string) []string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	if c.PublicURL != "" && !strings.HasPrefix(c.PublicURL, "http://") && !strings.HasPrefix(c.PublicURL, "https://") {
		return fmt.Errorf("public_url %q must start with http:// or https://", c.PublicURL)
	}
	return nil
}
