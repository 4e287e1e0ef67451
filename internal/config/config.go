// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// process environment first so its values can override the YAML.
//
// Both binaries (students-api and students-web) read the same file; each
// uses only the sections it needs.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file used by
	// the backend.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/students.db"`

	// HTTPServer is where the backend API listens.
	HTTPServer `yaml:"http_server"`

	// Web is where the front-end screens are served.
	Web Web `yaml:"web"`

	// API tells the front-end how to reach the backend.
	API API `yaml:"api"`
}

// HTTPServer holds settings specific to the backend HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Web holds settings for the front-end server.
type Web struct {
	Addr string `yaml:"address" env:"WEB_ADDR" env-default:"localhost:3000"`
}

// API holds the single base URL used for all four student endpoints and
// the per-request timeout. A hung backend fails the request after Timeout
// instead of leaving a screen loading forever.
type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8082"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

// MustLoad reads, validates, and returns the application config.
// It exits the process when the config cannot be loaded.
func MustLoad() *Config {
	// .env is optional
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("config.Load: api.timeout must be positive, got %s", cfg.API.Timeout)
	}

	return &cfg, nil
}
