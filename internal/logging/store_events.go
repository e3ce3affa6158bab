// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StoreLogger provides domain-specific log lines for the aggregation store.
type StoreLogger struct {
	logger zerolog.Logger
}

// NewStoreLogger creates a StoreLogger on top of the global logger.
func NewStoreLogger() *StoreLogger {
	return &StoreLogger{logger: WithComponent("store")}
}

// NewStoreLoggerWithLogger creates a StoreLogger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStoreLoggerWithLogger(logger zerolog.Logger) *StoreLogger {
	return &StoreLogger{logger: logger.With().Str("component", "store").Logger()}
}

// loggerWithContext adds correlation, request and session ids from ctx.
func (l *StoreLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := l.logger.With()

	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		logCtx = logCtx.Str("session_id", sessionID)
	}

	return logCtx.Logger()
}

// LogFetchStarted logs the start of an aggregation details fetch.
func (l *StoreLogger) LogFetchStarted(ctx context.Context, aggKind string, seq uint64) {
	logger := l.loggerWithContext(ctx)
	logger.Debug().
		Str("agg_kind", aggKind).
		Uint64("seq", seq).
		Msg("fetching aggregation details")
}

// LogFetchCompleted logs a successful fetch that was applied to the store.
func (l *StoreLogger) LogFetchCompleted(ctx context.Context, aggKind string, seq uint64, values int, duration time.Duration) {
	logger := l.loggerWithContext(ctx)
	logger.Debug().
		Str("agg_kind", aggKind).
		Uint64("seq", seq).
		Int("values_available", values).
		Dur("duration", duration).
		Msg("aggregation details loaded")
}

// LogFetchFailed logs a failed fetch that was applied to the store.
func (l *StoreLogger) LogFetchFailed(ctx context.Context, aggKind string, seq uint64, err error) {
	logger := l.loggerWithContext(ctx)
	logger.Warn().
		Err(err).
		Str("agg_kind", aggKind).
		Uint64("seq", seq).
		Msg("failed to load aggregation details")
}

// LogStaleDiscarded logs a completion dropped because a newer fetch superseded it.
func (l *StoreLogger) LogStaleDiscarded(ctx context.Context, aggKind string, seq, latest uint64) {
	logger := l.loggerWithContext(ctx)
	logger.Debug().
		Str("agg_kind", aggKind).
		Uint64("seq", seq).
		Uint64("latest_seq", latest).
		Msg("discarding stale aggregation response")
}

// LogAmbiguousLookup logs a lookup that matched more than one entry.
func (l *StoreLogger) LogAmbiguousLookup(lookup string, kpiID int, aggValue string, matches int) {
	event := l.logger.Warn().
		Str("lookup", lookup).
		Int("kpi_id", kpiID).
		Int("matches", matches)
	if aggValue != "" {
		event = event.Str("agg_value", aggValue)
	}
	event.Msg("ambiguous KPI lookup treated as absent")
}
