// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the settings shared by every cluesheet command.
type Config struct {
	Addr       string        `env:"CLUESHEET_ADDR" envDefault:":8080"`
	Theme      string        `env:"CLUESHEET_THEME" envDefault:"classic"`
	RedisURL   string        `env:"CLUESHEET_REDIS_URL"`
	SessionTTL time.Duration `env:"CLUESHEET_SESSION_TTL" envDefault:"24h"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string        `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads envFile if it exists, then parses the environment. Variables
// already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("CLUESHEET_SESSION_TTL must not be negative, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger() (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("LOG_FORMAT: want text or json, got %q", c.LogFormat)
	}
	return log, nil
}
