// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package config loads service configuration with a three-layer
// precedence: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first hit
// wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinechat/config.yaml",
	"/etc/cinechat/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CINECHAT_CONFIG"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Messenger MessengerConfig `koanf:"messenger"`
	Todo      TodoConfig      `koanf:"todo"`
	Bot       BotConfig       `koanf:"bot"`
}

// ServerConfig shapes the HTTP listener.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout      time.Duration `koanf:"timeout" validate:"min=1s"`
	RateLimit    int           `koanf:"rate_limit" validate:"min=1"`
	RatePeriod   time.Duration `koanf:"rate_period" validate:"min=1s"`
	AllowOrigins []string      `koanf:"allow_origins"`
}

// LoggingConfig shapes the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DataConfig points at the on-disk datasets loaded at startup.
type DataConfig struct {
	MoviesPath  string `koanf:"movies_path" validate:"required"`
	RatingsPath string `koanf:"ratings_path" validate:"required"`
	LexiconPath string `koanf:"lexicon_path" validate:"required"`
}

// MessengerConfig shapes the outbound relay client. An empty SendURL
// switches the service to log-only delivery.
type MessengerConfig struct {
	SendURL     string        `koanf:"send_url"`
	AccessToken string        `koanf:"access_token"`
	VerifyToken string        `koanf:"verify_token"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=1s"`
	RateLimit   float64       `koanf:"rate_limit" validate:"gt=0"`
	RateBurst   int           `koanf:"rate_burst" validate:"min=1"`
}

// TodoConfig shapes the todo-list feature.
type TodoConfig struct {
	Enabled bool   `koanf:"enabled"`
	DBPath  string `koanf:"db_path"`
}

// BotConfig shapes dialogue behavior.
type BotConfig struct {
	// Seed drives template selection and the spontaneous
	// recommendation coin flips. Zero seeds from the clock.
	Seed int64 `koanf:"seed"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8458,
			Timeout:      30 * time.Second,
			RateLimit:    100,
			RatePeriod:   time.Minute,
			AllowOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Data: DataConfig{
			MoviesPath:  "data/movies.txt",
			RatingsPath: "data/ratings.txt",
			LexiconPath: "data/sentiment.txt",
		},
		Messenger: MessengerConfig{
			SendURL:     "",
			AccessToken: "",
			VerifyToken: "mysecretverifytoken",
			Timeout:     10 * time.Second,
			RateLimit:   10,
			RateBurst:   5,
		},
		Todo: TodoConfig{
			Enabled: true,
			DBPath:  "data/todo.db",
		},
		Bot: BotConfig{
			Seed: 0,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file
// and CINECHAT_-prefixed environment variables, then validates it.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path
// skips the file layer.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("CINECHAT_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings translates CINECHAT_ environment variables to koanf
// paths. Unmapped variables are ignored so unrelated environment noise
// never reaches the config.
var envMappings = map[string]string{
	"cinechat_host":         "server.host",
	"cinechat_port":         "server.port",
	"cinechat_timeout":      "server.timeout",
	"cinechat_rate_limit":   "server.rate_limit",
	"cinechat_rate_period":  "server.rate_period",
	"cinechat_log_level":    "logging.level",
	"cinechat_log_format":   "logging.format",
	"cinechat_movies_path":  "data.movies_path",
	"cinechat_ratings_path": "data.ratings_path",
	"cinechat_lexicon_path": "data.lexicon_path",
	"cinechat_send_url":     "messenger.send_url",
	"cinechat_access_token": "messenger.access_token",
	"cinechat_verify_token": "messenger.verify_token",
	"cinechat_todo_enabled": "todo.enabled",
	"cinechat_todo_db_path": "todo.db_path",
	"cinechat_bot_seed":     "bot.seed",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Todo.Enabled && c.Todo.DBPath == "" {
		return fmt.Errorf("todo.db_path is required when the todo feature is enabled")
	}
	return nil
}
