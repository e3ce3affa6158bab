// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// config file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every optional setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// A .env file, when present, is loaded into the process environment before
// step 3 (see LoadDotEnv).
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	client, err := backend.NewClient(&cfg.Backend)
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Server   ServerConfig   `koanf:"server"`
	Session  SessionConfig  `koanf:"session"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig holds the metrics backend connection settings.
//
// Environment Variables:
//   - BACKEND_ROOT_API (or VITE_BACKEND_ROOT_API): base URL, required
//   - BACKEND_TIMEOUT: per-request HTTP timeout (default: 30s)
//   - BACKEND_MAX_RETRIES: retries on HTTP 429 (default: 5)
//   - BACKEND_RETRY_BASE_DELAY: first backoff delay, doubled per retry (default: 1s)
//   - BACKEND_REQUESTS_PER_SECOND: outbound rate limit, 0 = unlimited (default: 10)
//   - BACKEND_CACHE_TTL: shared aggregation cache TTL, 0 = disabled (default: 30s)
//   - BACKEND_VALIDATE_SCHEMA: validate payloads against the JSON schema (default: true)
type BackendConfig struct {
	RootAPI           string        `koanf:"root_api"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	ValidateSchema    bool          `koanf:"validate_schema"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig bounds the per-client dashboard state kept in memory.
//
// Environment Variables:
//   - SESSION_IDLE_TIMEOUT: evict a session after this much inactivity (default: 30m)
//   - SESSION_MAX_SESSIONS: reject new sessions beyond this count (default: 1000)
type SessionConfig struct {
	IdleTimeout time.Duration `koanf:"idle_timeout"`
	MaxSessions int           `koanf:"max_sessions"`
}

// SecurityConfig holds CORS and inbound rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Console is human-readable for development.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads .env (if any) and then loads the layered configuration.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}
