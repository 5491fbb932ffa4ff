// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package config defines the application configuration and its layered
// loader. Precedence is environment variables over the optional YAML file
// over built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/stats"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig     `koanf:"server"`
	Database DatabaseConfig   `koanf:"database"`
	Ledger   LedgerConfig     `koanf:"ledger"`
	History  HistoryConfig    `koanf:"history"`
	Rules    rules.Thresholds `koanf:"thresholds"`
	Stats    stats.Config     `koanf:"stats"`
	Alerting alerting.Config  `koanf:"alerting"`
	Security SecurityConfig   `koanf:"security"`
	Logging  LoggingConfig    `koanf:"logging"`
	API      APIConfig        `koanf:"api"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the DuckDB archive settings. An empty Path runs
// the archive in memory.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// LedgerConfig holds the Badger delivery ledger settings. An empty Path
// runs the ledger in memory.
type LedgerConfig struct {
	Path string `koanf:"path"`
}

// HistoryConfig holds the in-memory reading window settings.
type HistoryConfig struct {
	Capacity int `koanf:"capacity"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// AuthMode selects the API authentication scheme: jwt, basic, or none.
	AuthMode string `koanf:"auth_mode"`

	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	AdminUsername string `koanf:"admin_username"`
	// AdminPassword is a bcrypt hash when it starts with "$2", otherwise
	// it is treated as plaintext (development only).
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// APIConfig holds response shaping settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	NodeCacheTTL    time.Duration `koanf:"node_cache_ttl"`
}

// Validate rejects configurations the server cannot safely run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	switch c.Security.AuthMode {
	case "jwt":
		if c.Server.Environment == "production" && len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters in production")
		}
	case "basic":
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("basic auth requires admin_username and admin_password")
		}
	case "none":
		if c.Server.Environment == "production" {
			return fmt.Errorf("auth_mode none is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown auth_mode %q (want jwt, basic, or none)", c.Security.AuthMode)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	if c.History.Capacity < 0 {
		return fmt.Errorf("history capacity must be >= 0, got %d", c.History.Capacity)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api max_page_size %d below default_page_size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if smtp := c.Alerting.SMTP; smtp.Enabled() {
		if smtp.From == "" || !strings.Contains(smtp.From, "@") {
			return fmt.Errorf("alerting smtp.from %q is not a valid address", smtp.From)
		}
	}

	return nil
}
