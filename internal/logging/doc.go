// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

// Package logging provides centralized zerolog-based logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// Context-aware: adds request_id, correlation_id and session_id
//	logging.Ctx(ctx).Warn().Str("agg_kind", "W").Msg("fetch failed")
//
// # Components
//
//   - logger.go: global logger, levels, Init
//   - context.go: request / correlation / session id propagation
//   - slog_adapter.go: log/slog handler used by the supervisor tree
//   - store_events.go: fetch lifecycle lines for the aggregation store
//
// # Configuration
//
// Environment Variables (through internal/config):
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
