package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is loaded from an optional YAML file, then overridden from env.
type Config struct {
	Listen        string      `yaml:"listen"`
	QueueCapacity int         `yaml:"queue_capacity"`
	StackCapacity int         `yaml:"stack_capacity"`
	Seed          int64       `yaml:"seed"`
	LogLevel      string      `yaml:"log_level"`
	LogFormat     string      `yaml:"log_format"`
	MySQL         MySQLConfig `yaml:"mysql"`
}

type MySQLConfig struct {
	DSN string    `yaml:"dsn"`
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig selects the driver TLS mode: "", true, skip-verify or custom.
// The file paths only apply to custom.
type TLSConfig struct {
	Mode       string `yaml:"mode"`
	CA         string `yaml:"ca"`
	Cert       string `yaml:"cert"`
	Key        string `yaml:"key"`
	ServerName string `yaml:"server_name"`
}

func DefaultConfig() Config {
	return Config{
		Listen:        ":8080",
		QueueCapacity: DefaultQueueCapacity,
		StackCapacity: DefaultStackCapacity,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// LoadConfig reads path (if non-empty) on top of the defaults and applies
// env overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			c.Listen = ":" + port
		}
	}
	if s := strings.TrimSpace(getenv("TETRIS_SEED")); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Seed = v
		}
	}
	if s := strings.TrimSpace(getenv("LOG_LEVEL")); s != "" {
		c.LogLevel = s
	}
	if dsn := strings.TrimSpace(getenv("MYSQL_DSN")); dsn != "" {
		c.MySQL.DSN = dsn
	}
	if mode := strings.TrimSpace(getenv("MYSQL_TLS")); mode != "" {
		c.MySQL.TLS.Mode = mode
	}
	if s := strings.TrimSpace(getenv("MYSQL_TLS_CA")); s != "" {
		c.MySQL.TLS.CA = s
	}
	if s := strings.TrimSpace(getenv("MYSQL_TLS_CERT")); s != "" {
		c.MySQL.TLS.Cert = s
	}
	if s := strings.TrimSpace(getenv("MYSQL_TLS_KEY")); s != "" {
		c.MySQL.TLS.Key = s
	}
	if s := strings.TrimSpace(getenv("MYSQL_TLS_SERVER_NAME")); s != "" {
		c.MySQL.TLS.ServerName = s
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.QueueCapacity < 1 {
		errs = append(errs, fmt.Errorf("queue_capacity must be at least 1, got %d", c.QueueCapacity))
	}
	if c.StackCapacity < 1 {
		errs = append(errs, fmt.Errorf("stack_capacity must be at least 1, got %d", c.StackCapacity))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
	}
	return lvl, nil
}

func (c Config) SessionOptions() SessionOptions {
	opts := SessionOptions{QueueCapacity: c.QueueCapacity, StackCapacity: c.StackCapacity}
	if c.Seed != 0 {
		opts.Source = rand.NewSource(c.Seed)
	}
	return opts
}
