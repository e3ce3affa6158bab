// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

/*
Package config provides centralized configuration management for Offspot Metrics.

Configuration is layered with Koanf v2: struct defaults, then an optional YAML
file, then environment variables. A .env file is loaded into the process
environment first with godotenv, so it behaves like real environment variables
without overriding them.

# Config File

The file is looked up at $CONFIG_PATH, then config.yaml, config.yml,
/etc/offspot-metrics/config.yaml and /etc/offspot-metrics/config.yml:

	backend:
	  root_api: http://metrics.offspot.it/api
	  cache_ttl: 30s
	server:
	  port: 8080
	session:
	  idle_timeout: 30m

# Environment Variables

Backend:
  - BACKEND_ROOT_API: metrics backend base URL (required; VITE_BACKEND_ROOT_API is accepted too)
  - BACKEND_TIMEOUT, BACKEND_MAX_RETRIES, BACKEND_RETRY_BASE_DELAY
  - BACKEND_REQUESTS_PER_SECOND, BACKEND_CACHE_TTL, BACKEND_VALIDATE_SCHEMA

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development, staging, production (default: development)

Sessions:
  - SESSION_IDLE_TIMEOUT (default: 30m)
  - SESSION_MAX_SESSIONS (default: 1000)

Security:
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, RATE_LIMIT_DISABLED

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate() fails when BACKEND_ROOT_API is missing or is not an http(s) URL, and
when numeric settings are out of range.
*/
package config
