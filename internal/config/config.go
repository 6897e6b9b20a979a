// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package config loads server configuration from defaults, an optional YAML
// file, and command-line flags, in that order of precedence.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr    string  `koanf:"http_addr"`
	MetricsAddr string  `koanf:"metrics_addr"`
	DatabaseURL string  `koanf:"database_url"`
	Redis       Redis   `koanf:"redis"`
	Session     Session `koanf:"session"`
	Mail        Mail    `koanf:"mail"`
	Log         Log     `koanf:"log"`
}

// Redis configures the session store connection.
type Redis struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Session configures cookie and lifetime behavior.
type Session struct {
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
	TTL          time.Duration `koanf:"ttl"`
}

// Mail configures the best-effort SMTP notifier. With Enabled false the
// contact flow still persists messages and skips delivery.
type Mail struct {
	Enabled    bool   `koanf:"enabled"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Username   string `koanf:"username"`
	Password   string `koanf:"password"`
	From       string `koanf:"from"`
	AdminEmail string `koanf:"admin_email"`
}

// Log configures the slog handler.
type Log struct {
	Format string `koanf:"format"` // json or text
	Level  string `koanf:"level"`  // debug, info, warn, error
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: "127.0.0.1:9100",
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Session: Session{
			CookieName: "nursedemic_session",
			TTL:        24 * time.Hour,
		},
		Mail: Mail{
			Port:       587,
			From:       "noreply@nursedemic.com",
			AdminEmail: "info@nursedemic.com",
		},
		Log: Log{
			Format: "json",
			Level:  "info",
		},
	}
}

// Load builds the configuration. path may be empty; flags may be nil.
// DATABASE_URL and REDIS_ADDR environment variables fill those fields when
// the file and flags leave them unset.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" && !k.Exists("redis.addr") {
		cfg.Redis.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for required fields.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required (flag, file, or DATABASE_URL)")
	}
	if c.Redis.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("redis.addr is required")
	}
	if c.Session.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.ttl must be positive")
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return oops.Code("CONFIG_INVALID").Errorf("mail.host is required when mail is enabled")
	}
	return nil
}
